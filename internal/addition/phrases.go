package addition

import (
	"fmt"
	"math/rand/v2"
)

var (
	columnCompletePhrases = []string{"¡Perfecto!", "¡Así se hace!", "¡Muy bien!", "¡Genial!", "¡Vamos de maravilla!", "¡Eso es!"}
	noCarryPhrases        = []string{
		"¡Estupendo! Aquí no nos llevamos nada.",
		"¡Fácil! Como no nos llevamos nada, pasamos a la siguiente.",
		"¡Bien hecho! No hay llevada, así que seguimos.",
	}
	finalResultPhrases = []string{
		"¡Y lo logramos! ¡Qué gran trabajo has hecho!",
		"¡Misión cumplida! La suma es correcta. ¡Eres un genio de las mates!",
		"¡Terminamos! Y el resultado es perfecto. ¡Estoy muy orgulloso de ti!",
	}

	kidMotivations = []string{
		"Puedes brillar, ¡no importa de qué estés hecho!",
		"La perfección no existe, eres genial como eres. Con tus imperfecciones lograrás lo que quieras.",
		"¡Cada error es una oportunidad para aprender algo nuevo! ¡Sigue intentando!",
		"¡Eres más valiente de lo que crees y más inteligente de lo que piensas!",
		"¡Wow, qué bien lo estás haciendo! Cada suma te hace más fuerte.",
		"El secreto para salir adelante es empezar. ¡Y tú ya empezaste!",
	}
	adultMotivations = []string{
		"Eres el mejor.",
		"Gracias por enseñar con paciencia. Estás construyendo la confianza de un niño, un número a la vez.",
		"Recuerda que el objetivo no es la respuesta correcta, sino el proceso de aprender y descubrir juntos.",
		"Tu apoyo y ánimo son las herramientas más importantes en este viaje de aprendizaje.",
		"Celebrar los pequeños logros crea grandes aprendices. ¡Sigue así!",
		"Enseñar es dejar una huella en el futuro. Gracias por tu dedicación.",
	}
)

// PhrasePicker chooses one of phrases. seed is a stable per-step value that
// deterministic pickers may use.
type PhrasePicker func(phrases []string, seed int) string

// RotatingPicker picks phrases[seed mod len]. Narration built with it is a
// pure function of the step.
func RotatingPicker(phrases []string, seed int) string {
	if len(phrases) == 0 {
		return ""
	}
	if seed < 0 {
		seed = -seed
	}
	return phrases[seed%len(phrases)]
}

// RandomPicker ignores seed and picks uniformly.
func RandomPicker(phrases []string, _ int) string {
	if len(phrases) == 0 {
		return ""
	}
	return phrases[rand.IntN(len(phrases))]
}

// Audience selects a motivation phrase set.
type Audience string

const (
	AudienceKid   Audience = "kid"
	AudienceAdult Audience = "adult"
)

// Motivation returns an encouragement phrase for the audience.
func Motivation(audience Audience, pick PhrasePicker, seed int) (string, error) {
	if pick == nil {
		pick = RandomPicker
	}
	switch audience {
	case AudienceKid:
		return pick(kidMotivations, seed), nil
	case AudienceAdult:
		return pick(adultMotivations, seed), nil
	default:
		return "", fmt.Errorf("unknown audience %q", audience)
	}
}
