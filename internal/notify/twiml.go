// Package notify implements the outbound side of the lead pipeline:
// webhook delivery, SMS through the Twilio REST API, and TwiML rendering
// for the voice flow. Everything here is transport only; retry policy and
// persistence of outcomes live in the service layer.
package notify

import (
	"encoding/xml"
	"strings"
)

// Voice settings applied to every spoken prompt.
const (
	VoiceName     = "Polly.Joanna"
	VoiceLanguage = "en-US"
)

// Say speaks a prompt to the caller.
type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

// Pause waits silently for Length seconds.
type Pause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

// Gather collects DTMF digits or speech and posts the result to Action.
type Gather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr,omitempty"`
	Action        string   `xml:"action,attr,omitempty"`
	Method        string   `xml:"method,attr,omitempty"`
	Timeout       int      `xml:"timeout,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	NumDigits     int      `xml:"numDigits,attr,omitempty"`
	Hints         string   `xml:"hints,attr,omitempty"`
	Say           *Say     `xml:"Say,omitempty"`
}

// Redirect continues the call flow at another webhook URL.
type Redirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

// Hangup ends the call.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Dial bridges the caller to another number; the outcome is posted to Action.
type Dial struct {
	XMLName  xml.Name `xml:"Dial"`
	Action   string   `xml:"action,attr,omitempty"`
	Method   string   `xml:"method,attr,omitempty"`
	Timeout  int      `xml:"timeout,attr,omitempty"`
	CallerID string   `xml:"callerId,attr,omitempty"`
	Number   string   `xml:"Number"`
}

// VoiceResponse builds a TwiML document. Verbs render in insertion order.
type VoiceResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// Say appends a spoken prompt with the standard voice settings.
func (r *VoiceResponse) Say(text string) *VoiceResponse {
	r.Verbs = append(r.Verbs, Say{Voice: VoiceName, Language: VoiceLanguage, Text: text})
	return r
}

// Pause appends a silent pause of the given length in seconds.
func (r *VoiceResponse) Pause(seconds int) *VoiceResponse {
	r.Verbs = append(r.Verbs, Pause{Length: seconds})
	return r
}

// Gather appends an input-collection verb with an embedded prompt.
func (r *VoiceResponse) Gather(g Gather, prompt string) *VoiceResponse {
	if g.Input == "" {
		g.Input = "speech dtmf"
	}
	if g.Method == "" {
		g.Method = "POST"
	}
	if g.SpeechTimeout == "" {
		g.SpeechTimeout = "auto"
	}
	if prompt != "" {
		g.Say = &Say{Voice: VoiceName, Language: VoiceLanguage, Text: prompt}
	}
	r.Verbs = append(r.Verbs, g)
	return r
}

// Redirect appends a flow redirect.
func (r *VoiceResponse) Redirect(url string) *VoiceResponse {
	r.Verbs = append(r.Verbs, Redirect{Method: "POST", URL: url})
	return r
}

// Dial appends a call transfer.
func (r *VoiceResponse) Dial(d Dial) *VoiceResponse {
	if d.Method == "" {
		d.Method = "POST"
	}
	r.Verbs = append(r.Verbs, d)
	return r
}

// Hangup appends a hangup verb.
func (r *VoiceResponse) Hangup() *VoiceResponse {
	r.Verbs = append(r.Verbs, Hangup{})
	return r
}

// Render serializes the document with the XML declaration Twilio expects.
func (r *VoiceResponse) Render() string {
	body, err := xml.Marshal(r)
	if err != nil {
		// Marshalling fixed struct types cannot fail at runtime; keep the
		// call answerable regardless.
		return xml.Header + "<Response><Hangup></Hangup></Response>"
	}
	return xml.Header + string(body)
}

// ApologyHangup is the fallback document returned when a voice step fails:
// a spoken apology followed by hangup.
func ApologyHangup(text string) string {
	var r VoiceResponse
	r.Say(text).Hangup()
	return r.Render()
}

// SpellDigits spaces out a digit string for clearer speech synthesis
// ("30301" reads as "3 0 3 0 1").
func SpellDigits(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
