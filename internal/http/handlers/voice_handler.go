// Voice IVR webhook handlers.
//
// Twilio posts form-encoded call events; each handler advances the call one
// step, persists the caller's input through PhoneLeadService, and answers
// with a TwiML document. Failures never leave the caller in silence: every
// error path renders a spoken apology followed by hangup.
//
// Flow: inbound → gather-zip → gather-service → gather-callback → complete.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/benefitbuddy/go-leads-backend/internal/http/middleware"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
	"github.com/benefitbuddy/go-leads-backend/internal/utils"
)

const voiceApology = "We apologize for the technical difficulty. Please try again later. Goodbye."

// voiceURL builds the absolute action URL for a voice step.
func (h *Handlers) voiceURL(step string) string {
	return h.Cfg.PublicBaseURL + "/api/voice/" + step
}

// VoiceInbound godoc
// @ID          voiceInbound
// @Summary     Inbound call entrypoint
// @Description Creates the call record and greets the caller, then gathers the ZIP code.
// @Tags        Voice
// @Accept      x-www-form-urlencoded
// @Produce     xml
// @Success     200  {string}  string  "TwiML"
// @Router      /voice/inbound [post]
func (h *Handlers) VoiceInbound(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	if callSID == "" {
		callSID = uuid.NewString()
	}
	from := c.PostForm("From")
	to := c.PostForm("To")

	if err := h.PhoneLeads.StartCall(c.Request.Context(), callSID, from, to); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Str("call_sid", callSID).Msg("voice inbound failed")
		twiml(c, notify.ApologyHangup("We apologize, but we are experiencing technical difficulties. Please try again later. Goodbye."))
		return
	}

	var r notify.VoiceResponse
	r.Say("Hello! Welcome to Benefit Buddy. We help connect you with the services you need.").
		Pause(1).
		Gather(notify.Gather{
			Action:    h.voiceURL("gather-zip"),
			Timeout:   5,
			NumDigits: 5,
			Hints:     "zip code, postal code, five digits",
		}, "To get started, please enter or say your 5-digit ZIP code.").
		Say("I didn't catch that. Let me try again.").
		Redirect(h.voiceURL("inbound"))
	twiml(c, r.Render())
}

// VoiceGatherZip godoc
// @ID          voiceGatherZip
// @Summary     ZIP code step
// @Description Validates the spoken or keyed ZIP; valid input proceeds to service selection, invalid input re-prompts once then hangs up.
// @Tags        Voice
// @Accept      x-www-form-urlencoded
// @Produce     xml
// @Success     200  {string}  string  "TwiML"
// @Router      /voice/gather-zip [post]
func (h *Handlers) VoiceGatherZip(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	digits := c.PostForm("Digits")
	speech := c.PostForm("SpeechResult")

	zip := digits
	if zip == "" {
		d := utils.DigitsOnly(speech)
		if len(d) > 5 {
			d = d[:5]
		}
		zip = d
	}

	var r notify.VoiceResponse
	if len(zip) != 5 || utils.DigitsOnly(zip) != zip {
		r.Say("I'm sorry, I didn't get a valid 5-digit ZIP code.").
			Gather(notify.Gather{
				Action:    h.voiceURL("gather-zip"),
				Timeout:   5,
				NumDigits: 5,
			}, "Please enter or say your 5-digit ZIP code again.").
			Say("We are unable to process your request without a valid ZIP code. Goodbye.").
			Hangup()
		twiml(c, r.Render())
		return
	}

	raw := speech
	if raw == "" {
		raw = digits
	}
	if err := h.PhoneLeads.RecordZip(c.Request.Context(), callSID, raw, zip); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Str("call_sid", callSID).Msg("record zip failed")
		twiml(c, notify.ApologyHangup(voiceApology))
		return
	}

	r.Say("Got it! Your ZIP code is "+notify.SpellDigits(zip)+".").
		Pause(1).
		Gather(notify.Gather{
			Action:    h.voiceURL("gather-service"),
			Timeout:   5,
			NumDigits: 1,
			Hints:     "plumbing, funding, car help, one, two, three",
		}, "What type of service do you need? Press 1 or say plumbing. Press 2 or say funding. Press 3 or say car help.").
		Say("I didn't hear your selection. Let me repeat.").
		Redirect(h.voiceURL("gather-zip"))
	twiml(c, r.Render())
}

// VoiceGatherService godoc
// @ID          voiceGatherService
// @Summary     Service selection step
// @Description Parses the selection from DTMF or speech, flags urgent callers as hot; unrecognized input re-prompts then defaults to a general request.
// @Tags        Voice
// @Accept      x-www-form-urlencoded
// @Produce     xml
// @Success     200  {string}  string  "TwiML"
// @Router      /voice/gather-service [post]
func (h *Handlers) VoiceGatherService(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	digits := c.PostForm("Digits")
	speech := c.PostForm("SpeechResult")

	input := digits
	if input == "" {
		input = speech
	}
	serviceType := services.ParseServiceType(input)
	isHot := services.IsHotLead(speech)

	var r notify.VoiceResponse
	if serviceType == "" {
		// Re-prompt once; if the caller still gives nothing usable, fall
		// through to a general request rather than losing the lead.
		if err := h.PhoneLeads.DefaultService(c.Request.Context(), callSID); err != nil {
			middleware.LoggerFrom(c).Error().Err(err).Str("call_sid", callSID).Msg("default service failed")
			twiml(c, notify.ApologyHangup(voiceApology))
			return
		}
		r.Say("I'm sorry, I didn't understand your selection.").
			Gather(notify.Gather{
				Action:    h.voiceURL("gather-service"),
				Timeout:   5,
				NumDigits: 1,
			}, "Please press 1 for plumbing, 2 for funding, or 3 for car help.").
			Say("No worries, I'll connect you with a general representative.").
			Redirect(h.voiceURL("gather-callback") + "?use_caller=true")
		twiml(c, r.Render())
		return
	}

	if err := h.PhoneLeads.RecordService(c.Request.Context(), callSID, input, serviceType, isHot); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Str("call_sid", callSID).Msg("record service failed")
		twiml(c, notify.ApologyHangup(voiceApology))
		return
	}

	r.Say("Great! You selected "+services.ServiceSpokenName(serviceType)+".").
		Pause(1).
		Gather(notify.Gather{
			Action:    h.voiceURL("gather-callback"),
			Timeout:   8,
			NumDigits: 10,
			Hints:     "phone number, ten digits",
		}, "Now, please enter or say the best 10-digit phone number to reach you.").
		Redirect(h.voiceURL("gather-callback") + "?use_caller=true")
	twiml(c, r.Render())
}

// VoiceGatherCallback godoc
// @ID          voiceGatherCallback
// @Summary     Callback number step
// @Description Stores the callback number (falling back to the caller's own), sends the admin SMS alert, and bridges hot callers to the admin line.
// @Tags        Voice
// @Accept      x-www-form-urlencoded
// @Produce     xml
// @Success     200  {string}  string  "TwiML"
// @Router      /voice/gather-callback [post]
func (h *Handlers) VoiceGatherCallback(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	digits := c.PostForm("Digits")
	speech := c.PostForm("SpeechResult")
	caller := c.PostForm("From")
	useCaller := c.Query("use_caller") == "true"

	callback := digits
	if callback == "" {
		callback = utils.DigitsOnly(speech)
	}
	if len(callback) < 10 && useCaller && caller != "" {
		callback = lastDigits(caller, 10)
	}
	if len(callback) >= 10 {
		callback = lastDigits(callback, 10)
	} else {
		callback = lastDigits(caller, 10)
	}

	raw := speech
	if raw == "" {
		raw = digits
	}
	lead, err := h.PhoneLeads.CompleteCallback(c.Request.Context(), callSID, raw, callback)
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Str("call_sid", callSID).Msg("complete callback failed")
		twiml(c, notify.ApologyHangup("Thank you for calling. A representative will be in touch. Goodbye."))
		return
	}

	var r notify.VoiceResponse
	r.Say("Thank you! We have received your information.").Pause(1)

	adminPhone := h.Cfg.Twilio.AdminAlertPhone
	if lead.IsHot && adminPhone != "" {
		r.Say("Since this is an urgent request, let me connect you with someone right away. Please hold.")
		if err := h.PhoneLeads.MarkTransferred(c.Request.Context(), callSID, adminPhone); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("call_sid", callSID).Msg("transfer mark failed")
		}
		r.Dial(notify.Dial{
			Action:   h.voiceURL("complete"),
			Timeout:  30,
			CallerID: h.Cfg.Twilio.FromNumber,
			Number:   adminPhone,
		})
		r.Say("We were unable to connect you right now. A representative will call you back shortly at the number you provided.")
	} else {
		r.Say("A representative will contact you shortly at the number you provided. Thank you for calling Benefit Buddy. Goodbye!")
	}
	r.Hangup()
	twiml(c, r.Render())
}

// VoiceComplete godoc
// @ID          voiceComplete
// @Summary     Transfer outcome step
// @Description Records the Dial outcome and speaks the closing message.
// @Tags        Voice
// @Accept      x-www-form-urlencoded
// @Produce     xml
// @Success     200  {string}  string  "TwiML"
// @Router      /voice/complete [post]
func (h *Handlers) VoiceComplete(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	dialStatus := c.PostForm("DialCallStatus")
	duration := utils.AtoiDefault(c.PostForm("DialCallDuration"), 0)

	if err := h.PhoneLeads.RecordTransferOutcome(c.Request.Context(), callSID, dialStatus, duration); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Str("call_sid", callSID).Msg("transfer outcome write failed")
	}

	var r notify.VoiceResponse
	switch dialStatus {
	case "completed", "answered":
		r.Say("Thank you for calling Benefit Buddy. Goodbye!")
	case "busy", "no-answer", "failed":
		r.Say("We were unable to connect your call at this time. A representative will call you back shortly. Thank you for calling Benefit Buddy. Goodbye!")
	default:
		r.Say("Thank you for calling. Goodbye!")
	}
	r.Hangup()
	twiml(c, r.Render())
}

// lastDigits returns the trailing n digits of s, or every digit when fewer.
func lastDigits(s string, n int) string {
	d := utils.DigitsOnly(s)
	if len(d) > n {
		return d[len(d)-n:]
	}
	return d
}
