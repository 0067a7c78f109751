package services

import "github.com/querocurso/marketplace/pdf"

// Certificate layout, tuned for the landscape templates courses upload.
// Vertical positions are fractions of page height from the bottom edge.
const (
	nameY    = 0.55
	nameSize = 40

	courseY    = 0.45
	courseSize = 18
	courseLine = "concluiu com êxito o curso de %s"

	detailsY    = 0.40
	detailsSize = 14
	detailsLine = "com carga horária de %s, em %s."

	signatureWidth = 150
	signatureY     = 0.20

	professorY    = 0.18
	professorSize = 12

	captionY         = 0.15
	captionSize      = 10
	signatureCaption = "Coordenador Pedagógico"
)

var (
	accentColor  = pdf.Color{R: 0.1, G: 0.2, B: 0.4}
	captionColor = pdf.Color{R: 0.5, G: 0.5, B: 0.5}
)
