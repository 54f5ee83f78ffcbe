package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diogo/ladderweb/internal/models"
)

// Pipeline renders one result per backend script run. Output blocks are
// shown verbatim, with no wrapping, so hex values stay copyable.

// Verify renders a verification run
func (s *Surface) Verify(r models.VerifyResult) string {
	var b strings.Builder
	if r.Passed {
		b.WriteString(s.colored("✅ SUCCESS!", s.Theme.Good))
	} else {
		b.WriteString(s.colored("⚠️ Verification Failed", s.Theme.Warning))
	}
	b.WriteString("\n")

	if r.Forward != nil {
		fmt.Fprintf(&b, "Forward: %s\n", percent(*r.Forward))
		if r.Reverse != nil {
			fmt.Fprintf(&b, "Reverse: %s\n", percent(*r.Reverse))
		}
	}
	s.output(&b, r.Output)

	if r.Passed {
		s.nextStep(&b, "Generate puzzle 71 (Phase 5)")
	} else {
		s.nextStep(&b, "Compute missing drift (Phase 2)")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Drift renders a drift computation
func (s *Surface) Drift(r models.DriftResult) string {
	var b strings.Builder
	b.WriteString(s.colored("✅ Drift Computed Successfully!", s.Theme.Good) + "\n")
	fmt.Fprintf(&b, "HEX75: %s\n", r.Hex75)
	fmt.Fprintf(&b, "HEX80: %s\n", r.Hex80)

	if len(r.C0) > 0 {
		b.WriteString(s.label("Computed Drift Values:") + "\n")
		for i := 0; i < len(r.C0); i += CalibrationColumns {
			var row []string
			for j := i; j < i+CalibrationColumns && j < len(r.C0); j++ {
				row = append(row, fmt.Sprintf("Lane %-2d: %-6s", j, r.C0[j]))
			}
			b.WriteString(strings.TrimRight(strings.Join(row, "  "), " ") + "\n")
		}
	}
	s.output(&b, r.Output)
	s.nextStep(&b, "Patch calibration (Phase 3)")
	return strings.TrimRight(b.String(), "\n")
}

// Patch renders a calibration patch
func (s *Surface) Patch(r models.CommandResult) string {
	var b strings.Builder
	b.WriteString(s.colored("✅ Calibration Patched Successfully!", s.Theme.Good) + "\n")
	s.output(&b, r.Output)
	s.nextStep(&b, "Re-verify to confirm 100% (Phase 4)")
	return strings.TrimRight(b.String(), "\n")
}

// Generate renders a generated key
func (s *Surface) Generate(r models.GenerateResult) string {
	var b strings.Builder
	b.WriteString(s.colored("✅ Puzzle Generated!", s.Theme.Good) + "\n")
	b.WriteString(s.label("Generated Private Key (Puzzle 71):") + "\n")
	b.WriteString(r.PrivateKey() + "\n")
	s.output(&b, r.Output)
	s.nextStep(&b, "Validate this address (Phase 6)")
	return strings.TrimRight(b.String(), "\n")
}

// Validate renders an address validation for puzzle
func (s *Surface) Validate(r models.ValidateResult, puzzle int) string {
	var b strings.Builder
	if r.Passed {
		b.WriteString(s.colored("✅✅✅ MATCH! THE PRIVATE KEY IS CORRECT! ✅✅✅", s.Theme.Good) + "\n")
		b.WriteString("🎉 SUCCESS! You generated a correct unknown private key!\n")
		fmt.Fprintf(&b, "The ladder mathematics is PROVEN for puzzle %d!\n", puzzle)
	} else {
		b.WriteString(s.colored("❌ Address Mismatch", s.Theme.Bad) + "\n")
		b.WriteString("The addresses do not match. Check the cryptographic rules:\n")
		for _, rule := range []string{
			"Big-endian byte order",
			"Compressed public key (33 bytes)",
			"SHA256 → RIPEMD160 hash sequence",
			"Version byte 0x00",
			"Base58Check encoding",
		} {
			b.WriteString("  • " + rule + "\n")
		}
	}
	s.output(&b, r.Output)
	return strings.TrimRight(b.String(), "\n")
}

// Puzzle renders a puzzle lookup for n
func (s *Surface) Puzzle(p models.PuzzleInfo, n int) string {
	if !p.InDatabase {
		return fmt.Sprintf("Puzzle %d is NOT in the database (needs to be generated)", n)
	}
	return fmt.Sprintf("Puzzle %d:\n%s", p.Bits, p.Hex)
}

// Models renders the installed models with the active one marked
func (s *Surface) Models(m models.AvailableModels) string {
	if len(m.Models) == 0 {
		return s.dim("No models available")
	}
	lines := make([]string, len(m.Models))
	for i, name := range m.Models {
		if name == m.Current {
			lines[i] = s.colored("● "+name+" (active)", s.Theme.Good)
		} else {
			lines[i] = "  " + name
		}
	}
	return strings.Join(lines, "\n")
}

// ModelSearch renders search hits
func (s *Surface) ModelSearch(r models.ModelSearch) string {
	if len(r.Hits) == 0 {
		return fmt.Sprintf("No models found for %q", r.Query)
	}
	cards := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		lines := []string{
			s.label(h.Name),
			s.badge(h.Size, s.Theme.Good) + " " + s.badge(h.Type, s.Theme.Primary),
		}
		if h.Description != "" {
			lines = append(lines, s.clip(h.Description, s.Width-2))
		}
		if h.URL != "" {
			lines = append(lines, s.dim(h.URL))
		}
		cards[i] = strings.Join(lines, "\n")
	}
	return strings.Join(cards, "\n\n")
}

// Failure renders a pipeline error block
func (s *Surface) Failure(message string) string {
	return s.colored("❌ Error", s.Theme.Bad) + "\n" + message
}

func (s *Surface) output(b *strings.Builder, out string) {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return
	}
	b.WriteString("\n" + s.dim(out) + "\n")
}

func (s *Surface) nextStep(b *strings.Builder, step string) {
	b.WriteString("\n" + s.label("Next step:") + " " + step + "\n")
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
