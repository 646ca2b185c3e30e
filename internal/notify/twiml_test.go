package notify

import (
	"strings"
	"testing"
)

func TestVoiceResponse_RenderOrderAndAttributes(t *testing.T) {
	var r VoiceResponse
	r.Say("Hello!").
		Pause(1).
		Gather(Gather{Action: "http://x/api/voice/gather-zip", Timeout: 5, NumDigits: 5, Hints: "zip code"}, "Say your ZIP code.").
		Say("I didn't catch that.").
		Redirect("http://x/api/voice/inbound")

	out := r.Render()
	if !strings.HasPrefix(out, "<?xml") {
		t.Fatalf("missing xml declaration: %s", out)
	}
	for _, want := range []string{
		`voice="Polly.Joanna"`,
		`language="en-US"`,
		`<Pause length="1"`,
		`action="http://x/api/voice/gather-zip"`,
		`numDigits="5"`,
		`speechTimeout="auto"`,
		`input="speech dtmf"`,
		`<Redirect method="POST">http://x/api/voice/inbound</Redirect>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	// Verbs must render in insertion order.
	if strings.Index(out, "<Gather") < strings.Index(out, "<Pause") {
		t.Fatalf("gather rendered before pause:\n%s", out)
	}
	if strings.Index(out, "<Redirect") < strings.Index(out, "<Gather") {
		t.Fatalf("redirect rendered before gather:\n%s", out)
	}
}

func TestVoiceResponse_Dial(t *testing.T) {
	var r VoiceResponse
	r.Dial(Dial{Action: "http://x/api/voice/complete", Timeout: 30, CallerID: "+15550001111", Number: "+15552223333"})
	out := r.Render()
	for _, want := range []string{
		`timeout="30"`,
		`callerId="+15550001111"`,
		`<Number>+15552223333</Number>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestApologyHangup(t *testing.T) {
	out := ApologyHangup("We apologize. Goodbye.")
	if !strings.Contains(out, "We apologize. Goodbye.") || !strings.Contains(out, "<Hangup") {
		t.Fatalf("unexpected document:\n%s", out)
	}
}

func TestSpellDigits(t *testing.T) {
	if got := SpellDigits("30301"); got != "3 0 3 0 1" {
		t.Fatalf("got %q", got)
	}
}
