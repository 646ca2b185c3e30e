package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/config"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// recordingSMS captures every send and always reports success.
type recordingSMS struct {
	to   []string
	body []string
}

func (r *recordingSMS) Send(_ context.Context, to, body string) notify.SMSResult {
	r.to = append(r.to, to)
	r.body = append(r.body, body)
	return notify.SMSResult{Success: true, SID: "SM-test"}
}

func voiceRouter(db *gorm.DB, sms *recordingSMS, adminPhone string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{PublicBaseURL: "http://localhost:8080"}
	cfg.Twilio.FromNumber = "+15550000000"
	cfg.Twilio.AdminAlertPhone = adminPhone

	h := &Handlers{
		PhoneLeads: &services.PhoneLeadService{DB: db, SMS: sms, AdminPhone: adminPhone},
		Cfg:        cfg,
	}

	r := gin.New()
	v := r.Group("/api/voice")
	v.POST("/inbound", h.VoiceInbound)
	v.POST("/gather-zip", h.VoiceGatherZip)
	v.POST("/gather-service", h.VoiceGatherService)
	v.POST("/gather-callback", h.VoiceGatherCallback)
	v.POST("/complete", h.VoiceComplete)
	return r
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s -> %d body=%s", path, w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
		t.Fatalf("POST %s content type = %q", path, ct)
	}
	return w
}

func TestVoiceFlow_HappyPath_HotTransfer(t *testing.T) {
	db := newHandlersDB(t)
	sms := &recordingSMS{}
	r := voiceRouter(db, sms, "+15559990000")

	const callSID = "CA-hot-flow"

	// inbound: greeting plus the ZIP gather
	w := postForm(t, r, "/api/voice/inbound", url.Values{
		"CallSid": {callSID},
		"From":    {"+14045551234"},
		"To":      {"+15550000000"},
	})
	body := w.Body.String()
	if !strings.Contains(body, "Welcome to Benefit Buddy") ||
		!strings.Contains(body, "/api/voice/gather-zip") {
		t.Fatalf("inbound twiml: %s", body)
	}

	// gather-zip with keyed digits
	w = postForm(t, r, "/api/voice/gather-zip", url.Values{
		"CallSid": {callSID},
		"Digits":  {"30301"},
	})
	body = w.Body.String()
	if !strings.Contains(body, "Your ZIP code is 3 0 3 0 1") ||
		!strings.Contains(body, "/api/voice/gather-service") {
		t.Fatalf("zip twiml: %s", body)
	}

	// urgent plumbing request flags the call hot
	w = postForm(t, r, "/api/voice/gather-service", url.Values{
		"CallSid":      {callSID},
		"SpeechResult": {"I have an urgent plumbing emergency"},
	})
	body = w.Body.String()
	if !strings.Contains(body, "You selected plumbing services") {
		t.Fatalf("service twiml: %s", body)
	}

	// callback step: hot call bridges to the admin line
	w = postForm(t, r, "/api/voice/gather-callback", url.Values{
		"CallSid": {callSID},
		"Digits":  {"4045559876"},
		"From":    {"+14045551234"},
	})
	body = w.Body.String()
	if !strings.Contains(body, "urgent request") || !strings.Contains(body, "<Dial") ||
		!strings.Contains(body, "+15559990000") {
		t.Fatalf("callback twiml: %s", body)
	}

	// admin alert SMS carried the lead details
	if len(sms.to) != 1 || sms.to[0] != "+15559990000" {
		t.Fatalf("sms targets: %v", sms.to)
	}
	if !strings.Contains(sms.body[0], "HOT LEAD") ||
		!strings.Contains(sms.body[0], "30301") ||
		!strings.Contains(sms.body[0], "Plumbing") {
		t.Fatalf("sms body: %s", sms.body[0])
	}

	// complete: dial outcome is persisted
	w = postForm(t, r, "/api/voice/complete", url.Values{
		"CallSid":          {callSID},
		"DialCallStatus":   {"completed"},
		"DialCallDuration": {"42"},
	})
	if !strings.Contains(w.Body.String(), "Goodbye") {
		t.Fatalf("complete twiml: %s", w.Body.String())
	}

	lead, err := repo.GetPhoneLeadByCallSID(context.Background(), db, callSID)
	if err != nil {
		t.Fatalf("get phone lead: %v", err)
	}
	if lead.ZipCode != "30301" || lead.ServiceType != services.ServicePlumbing || !lead.IsHot {
		t.Fatalf("lead state: %+v", lead)
	}
	if lead.CallbackNumber != "4045559876" || lead.CallStatus != "completed" {
		t.Fatalf("callback state: %+v", lead)
	}
	if !lead.Transferred || lead.TransferStatus != "completed" || lead.TransferDuration != 42 {
		t.Fatalf("transfer state: %+v", lead)
	}
	if !lead.SMSAlertSent || lead.SMSAlertSID != "SM-test" {
		t.Fatalf("sms state: %+v", lead)
	}
	if len(lead.SpeechTranscript) != 3 {
		t.Fatalf("transcript entries: %+v", lead.SpeechTranscript)
	}
}

func TestVoiceGatherZip_InvalidInputReprompts(t *testing.T) {
	db := newHandlersDB(t)
	r := voiceRouter(db, &recordingSMS{}, "")

	w := postForm(t, r, "/api/voice/inbound", url.Values{"CallSid": {"CA-badzip"}, "From": {"+15551112222"}})
	_ = w

	w = postForm(t, r, "/api/voice/gather-zip", url.Values{
		"CallSid":      {"CA-badzip"},
		"SpeechResult": {"um I don't know"},
	})
	body := w.Body.String()
	if !strings.Contains(body, "didn't get a valid 5-digit ZIP") ||
		!strings.Contains(body, "<Hangup") {
		t.Fatalf("invalid zip twiml: %s", body)
	}

	// nothing recorded for the step
	lead, err := repo.GetPhoneLeadByCallSID(context.Background(), db, "CA-badzip")
	if err != nil {
		t.Fatalf("get phone lead: %v", err)
	}
	if lead.ZipCode != "" {
		t.Fatalf("zip should be empty, got %q", lead.ZipCode)
	}
}

func TestVoiceGatherService_UnknownDefaultsToGeneral(t *testing.T) {
	db := newHandlersDB(t)
	r := voiceRouter(db, &recordingSMS{}, "")

	postForm(t, r, "/api/voice/inbound", url.Values{"CallSid": {"CA-general"}, "From": {"+15553334444"}})

	w := postForm(t, r, "/api/voice/gather-service", url.Values{
		"CallSid":      {"CA-general"},
		"SpeechResult": {"something else entirely"},
	})
	body := w.Body.String()
	if !strings.Contains(body, "didn't understand your selection") ||
		!strings.Contains(body, "general representative") ||
		!strings.Contains(body, "use_caller=true") {
		t.Fatalf("unknown service twiml: %s", body)
	}

	lead, err := repo.GetPhoneLeadByCallSID(context.Background(), db, "CA-general")
	if err != nil {
		t.Fatalf("get phone lead: %v", err)
	}
	if lead.ServiceType != services.ServiceGeneral {
		t.Fatalf("service type = %q", lead.ServiceType)
	}
}

func TestVoiceGatherCallback_ColdCallerFallsBackToCallerID(t *testing.T) {
	db := newHandlersDB(t)
	sms := &recordingSMS{}
	r := voiceRouter(db, sms, "+15559990000")

	postForm(t, r, "/api/voice/inbound", url.Values{"CallSid": {"CA-cold"}, "From": {"+14045557777"}})
	postForm(t, r, "/api/voice/gather-zip", url.Values{"CallSid": {"CA-cold"}, "Digits": {"90210"}})
	postForm(t, r, "/api/voice/gather-service", url.Values{"CallSid": {"CA-cold"}, "Digits": {"2"}})

	// no digits and no speech: the caller ID supplies the callback number
	w := postForm(t, r, "/api/voice/gather-callback", url.Values{
		"CallSid": {"CA-cold"},
		"From":    {"+14045557777"},
	})
	body := w.Body.String()
	if strings.Contains(body, "<Dial") {
		t.Fatalf("cold lead must not bridge: %s", body)
	}
	if !strings.Contains(body, "A representative will contact you shortly") {
		t.Fatalf("cold closing missing: %s", body)
	}

	lead, err := repo.GetPhoneLeadByCallSID(context.Background(), db, "CA-cold")
	if err != nil {
		t.Fatalf("get phone lead: %v", err)
	}
	if lead.CallbackNumber != "4045557777" {
		t.Fatalf("callback fallback = %q", lead.CallbackNumber)
	}
	if lead.IsHot || lead.Transferred {
		t.Fatalf("cold lead flags: %+v", lead)
	}
	// cold leads still alert the admin, without the urgent banner
	if len(sms.body) != 1 || strings.Contains(sms.body[0], "HOT LEAD") {
		t.Fatalf("sms: %v", sms.body)
	}
}

func TestVoiceInbound_MissingCallSidStillAnswers(t *testing.T) {
	db := newHandlersDB(t)
	r := voiceRouter(db, &recordingSMS{}, "")

	w := postForm(t, r, "/api/voice/inbound", url.Values{"From": {"+15556667777"}})
	if !strings.Contains(w.Body.String(), "Welcome to Benefit Buddy") {
		t.Fatalf("inbound twiml: %s", w.Body.String())
	}
}
