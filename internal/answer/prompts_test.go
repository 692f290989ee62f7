package answer

import (
	"strings"
	"testing"
)

func TestBuildRAGPrompt(t *testing.T) {
	prompt, err := BuildRAGPrompt(
		"jam berapa sarapan?",
		"history ke-1: ada kolam renang?",
		"Sarapan tersedia pukul 06.00 sampai 10.00.",
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"ForrizAI",
		"PERTANYAAN:\njam berapa sarapan?",
		"HISTORY:\nhistory ke-1: ada kolam renang?",
		"KONTEKS:\nSarapan tersedia pukul 06.00 sampai 10.00.",
		"KETENTUAN:",
		"https://i.ibb.co.com/",
		"24 Juli 2025",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildRAGPrompt_EmptyHistory(t *testing.T) {
	prompt, err := BuildRAGPrompt("halo", "", "konteks")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "HISTORY:\n\n") {
		t.Errorf("empty history should leave the slot blank:\n%s", prompt)
	}
}

func TestBuildDirectPrompt(t *testing.T) {
	prompt, err := BuildDirectPrompt("dimana lokasi hotel?", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Hotel Forriz Yogyakarta",
		"PERTANYAAN:\ndimana lokasi hotel?",
		"KETENTUAN:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "KONTEKS") {
		t.Error("ungrounded prompt must not carry a context slot")
	}
}
