package stock

// Level clasificación de existencias para presentación.
type Level string

const (
	LevelHigh   Level = "Alto"
	LevelMedium Level = "Medio"
	LevelLow    Level = "Bajo"
)

// Classify > 100 Alto; 21..100 Medio; <= 20 Bajo (incluye negativos).
func Classify(quantity int64) Level {
	switch {
	case quantity > 100:
		return LevelHigh
	case quantity > 20:
		return LevelMedium
	default:
		return LevelLow
	}
}
