package imagestudio

import "fmt"

// Augment rewrites a create prompt for the selected variant. CreateFree and
// unknown variants return the prompt unchanged.
func Augment(prompt string, variant CreateVariant) string {
	switch variant {
	case CreateSticker:
		return fmt.Sprintf("A vibrant, die-cut sticker of %s, with a thick white border, cartoon style.", prompt)
	case CreateLogo:
		return fmt.Sprintf(`A clean, modern text-based logo for "%s". The logo should be on a plain white background.`, prompt)
	case CreateComic:
		return fmt.Sprintf("A comic book panel illustration of %s, in a dynamic, action-packed style with bold lines and vibrant colors.", prompt)
	case CreateThumbnail:
		return fmt.Sprintf(`Create a vibrant and eye-catching YouTube thumbnail about "%s". The thumbnail should be visually engaging, with bold, readable text for the title, high contrast, and designed to attract clicks.`, prompt)
	case CreateObject3D:
		return fmt.Sprintf("A high-quality 3D model render of %s, clean studio lighting, on a neutral plain background, photorealistic style.", prompt)
	default:
		return prompt
	}
}
