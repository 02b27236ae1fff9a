package core

import (
	"fmt"
	"strings"
)

const initialPrompt = `Create a subtle clean-up version of the original desk scene.

STRICTLY preserve:
- All objects (laptop, mouse, cables, food items, tray, bottle, cup, notebooks, etc.)
- Desk size, shape, and layout
- Background, lighting direction, and perspective
- The exact scene type (desk workspace)

Allowed changes:
- Reorganize clutter slightly
- Neatly arrange items
- Add very small storage or cable organizers
- Clean surfaces
- Improve visual order without modifying the identity of the scene

Do NOT add:
- New furniture
- New room decorations
- New shelves, posters, lamps
- Major layout changes
- Any hallucinated objects`

const customizedPromptBase = `Create a subtle clean-up version of the original desk scene with a WARM, COZY STYLE using LIGHT YELLOW tones.

STRICTLY preserve:
- All objects (laptop, mouse, cables, food items, tray, bottle, cup, notebooks, etc.)
- Desk size, shape, and layout
- Background, lighting direction, and perspective
- The exact scene type (desk workspace)

STYLE REQUIREMENTS - WARM & COZY:
- Apply WARM, COZY aesthetic throughout the scene
- Use LIGHT YELLOW color palette for added items, organizers, and subtle accents
- Create a warm, inviting atmosphere with soft yellow tones
- Add gentle warm lighting that enhances the cozy feeling
- Use light yellow for storage boxes, cable organizers, and small decorative items

Allowed changes:
- Reorganize clutter slightly
- Neatly arrange items
- Add very small storage or cable organizers in LIGHT YELLOW tones
- Clean surfaces
- Improve visual order without modifying the identity of the scene
- Enhance the scene with warm, cozy lighting and light yellow accents

Do NOT add:
- New furniture
- New room decorations
- New shelves, posters, lamps
- Major layout changes
- Any hallucinated objects`

const finalReinforcement = "\n\nREMEMBER: The overall aesthetic must be WARM and COZY with LIGHT YELLOW color accents throughout. Create an inviting, comfortable atmosphere with soft yellow tones."

// PromptInput carries the user choices folded into the customized prompt.
type PromptInput struct {
	Style        string
	Budget       *float64
	ChatMessages []string
	Vision       string
}

// InitialPrompt is the fixed prompt for the first, subtle clean-up image.
func InitialPrompt() string {
	return initialPrompt
}

// BudgetTier names the price class used for the budget line.
func BudgetTier(budget float64) string {
	switch {
	case budget <= 50:
		return "budget-friendly"
	case budget <= 200:
		return "mid-range"
	default:
		return "premium"
	}
}

// ChatContext joins chat messages into a single preference sentence list.
func ChatContext(messages []string) string {
	return strings.Join(messages, ". ")
}

// CustomizedPrompt builds the prompt for the final image. User values are inserted verbatim.
func CustomizedPrompt(input PromptInput) string {
	var b strings.Builder
	b.WriteString(customizedPromptBase)

	if input.Style != "" {
		fmt.Fprintf(&b, "\n\nStyle preference: Apply %s aesthetic with WARM, COZY STYLE and LIGHT YELLOW colors to small added items (organizers, storage boxes) - use light yellow tones for a warm, inviting feel.", input.Style)
	} else {
		b.WriteString("\n\nDefault style: Apply WARM, COZY STYLE with LIGHT YELLOW color palette to all small added items for a warm, inviting atmosphere.")
	}

	if input.Budget != nil && *input.Budget > 0 {
		switch BudgetTier(*input.Budget) {
		case "budget-friendly":
			b.WriteString("\nBudget level: Use budget-friendly small items (simple organizers, basic storage boxes).")
		case "mid-range":
			b.WriteString("\nBudget level: Use mid-range small items (quality organizers, subtle decorative accents).")
		default:
			b.WriteString("\nBudget level: Use premium small items (high-quality organizers, stylish minimal decorative pieces).")
		}
	}

	if chat := ChatContext(input.ChatMessages); chat != "" {
		fmt.Fprintf(&b, "\n\nUser preferences: %s - apply these preferences with WARM, COZY STYLE and LIGHT YELLOW colors ONLY to small added items, not to existing scene structure.", chat)
	}

	if input.Vision != "" {
		fmt.Fprintf(&b, "\n\nUser's vision: %s - while maintaining all original objects and scene structure, and keeping the WARM, COZY STYLE with LIGHT YELLOW tones.", input.Vision)
	}

	b.WriteString(finalReinforcement)
	return b.String()
}
