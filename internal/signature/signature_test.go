package signature

import (
	"strings"
	"testing"

	"github.com/reddyfit/bodyscan/internal/models"
)

func TestGenerateFormat(t *testing.T) {
	got := Generate(models.BodyTypeVTaper, 12.5, "A3F7C2", 1.54)
	want := "VTaper-BF12.5-A3F7C2-AI1.54"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerateStripsSpacesAndHyphens(t *testing.T) {
	got := Generate(models.BodyTypeVTaper, 15.0, "ABC123", 1.40)
	if strings.Count(got, "-") != 3 {
		t.Errorf("Generate() = %q, want exactly 3 dashes", got)
	}
	if !strings.HasPrefix(got, "VTaper-") {
		t.Errorf("Generate() = %q, body type not normalized", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	id := Generate(models.BodyTypeClassic, 14.2, "0F9B3D", 1.62)
	parsed := Parse(id)
	if parsed == nil {
		t.Fatalf("Parse(%q) = nil", id)
	}
	if parsed.BodyType != "Classic" {
		t.Errorf("BodyType = %q, want Classic", parsed.BodyType)
	}
	if parsed.BodyFat != 14.2 {
		t.Errorf("BodyFat = %v, want 14.2", parsed.BodyFat)
	}
	if parsed.Hash != "0F9B3D" {
		t.Errorf("Hash = %q, want 0F9B3D", parsed.Hash)
	}
	if parsed.AdonisIndex != 1.62 {
		t.Errorf("AdonisIndex = %v, want 1.62", parsed.AdonisIndex)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, id := range []string{
		"",
		"not-a-signature",
		"VTaper-BF12.5-a3f7c2-AI1.54", // lowercase hash
		"VTaper-BF12-A3F7C2-AI1.54",   // integer body fat
		"VTaper-BF12.5-A3F7C-AI1.54",  // short hash
		"VTaper-BF12.5-A3F7C2",        // missing field
	} {
		if got := Parse(id); got != nil {
			t.Errorf("Parse(%q) = %+v, want nil", id, got)
		}
		if Valid(id) {
			t.Errorf("Valid(%q) = true", id)
		}
	}
}

func TestCompare(t *testing.T) {
	oldID := "Rectangular-BF18.0-AAAAAA-AI1.30"
	newID := "VTaper-BF15.5-BBBBBB-AI1.45"

	cmp := Compare(oldID, newID)
	if cmp == nil {
		t.Fatal("Compare() = nil")
	}
	if !cmp.BodyTypeChanged {
		t.Error("BodyTypeChanged = false")
	}
	if cmp.BodyFatChange != -2.5 {
		t.Errorf("BodyFatChange = %v, want -2.5", cmp.BodyFatChange)
	}
	if cmp.AdonisChange != 0.15 {
		t.Errorf("AdonisChange = %v, want 0.15", cmp.AdonisChange)
	}
	if !cmp.CompositionChanged {
		t.Error("CompositionChanged = false")
	}

	joined := strings.Join(cmp.Interpretations, "\n")
	if !strings.Contains(joined, "Lost 2.5% body fat") {
		t.Errorf("interpretations %v missing fat-loss line", cmp.Interpretations)
	}
	if !strings.Contains(joined, "better V-taper") {
		t.Errorf("interpretations %v missing adonis line", cmp.Interpretations)
	}
}

func TestCompareMalformedReturnsNil(t *testing.T) {
	if got := Compare("garbage", "VTaper-BF15.5-BBBBBB-AI1.45"); got != nil {
		t.Errorf("Compare() = %+v, want nil", got)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VTaper-BF12.5-A3F7C2-AI1.54", "A3F7C2"},
		{"broken-but-contains-D4E5F6-somewhere", "D4E5F6"},
		{"nothing useful here", "INVALID"},
	}
	for _, tt := range tests {
		if got := ShortID(tt.in); got != tt.want {
			t.Errorf("ShortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQRRoundTrip(t *testing.T) {
	id := "VTaper-BF12.5-A3F7C2-AI1.54"
	payload := ToQRPayload(id)
	if strings.Contains(payload, "-") {
		t.Errorf("ToQRPayload(%q) = %q still has dashes", id, payload)
	}
	if got := FromQRPayload(payload); got != id {
		t.Errorf("FromQRPayload(%q) = %q, want %q", payload, got, id)
	}
}

func TestFromQRPayloadMalformed(t *testing.T) {
	if got := FromQRPayload("odd payload"); got != "" {
		t.Errorf("FromQRPayload() = %q, want empty", got)
	}
}

func TestInsights(t *testing.T) {
	insights := Insights("VTaper-BF12.5-A3F7C2-AI1.64")
	joined := strings.Join(insights, "\n")
	if !strings.Contains(joined, "Lean body composition") {
		t.Errorf("insights %v missing body fat bucket", insights)
	}
	if !strings.Contains(joined, "Excellent V-taper") {
		t.Errorf("insights %v missing adonis bucket", insights)
	}

	insights = Insights("malformed")
	if len(insights) != 1 || insights[0] != "Invalid signature format" {
		t.Errorf("Insights(malformed) = %v", insights)
	}
}

func TestDisplayName(t *testing.T) {
	got := DisplayName("VTaper-BF12.5-A3F7C2-AI1.54")
	if got != "VTaper | 12.5% BF | #A3F7C2" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := DisplayName("garbage"); got != "garbage" {
		t.Errorf("DisplayName(garbage) = %q", got)
	}
}
