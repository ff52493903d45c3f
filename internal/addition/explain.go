package addition

import (
	"fmt"
	"strconv"
	"strings"
)

// Narrator turns steps into spoken-style Spanish explanations.
type Narrator struct {
	Pick PhrasePicker
}

var defaultNarrator = Narrator{Pick: RotatingPicker}

// Explain narrates step with the default deterministic narrator. It returns
// the text and the updated "padding already explained" flag.
func Explain(step Step, aligned AlignedOperandSet, paddingExplained bool) (string, bool) {
	return defaultNarrator.Explain(step, aligned, paddingExplained)
}

// Explain narrates one step. The padding zero remark is made at most once:
// after it, the returned flag is true and stays true for the session.
func (n Narrator) Explain(step Step, aligned AlignedOperandSet, paddingExplained bool) (string, bool) {
	pick := n.Pick
	if pick == nil {
		pick = RotatingPicker
	}

	var b strings.Builder
	say := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte(' ')
	}

	if step.IsFinalCarry {
		say("¡Atención, este es el último paso! Como ya no hay más columnas, ese %s que nos llevábamos baja directamente para ser el primer número de nuestra respuesta final.",
			SpellNumber(step.CarryIn))
		say("%s", pick(finalResultPhrases, step.ColumnIndex))
		return tidy(b.String()), paddingExplained
	}

	decimals := aligned.DecimalPosition
	say("Vamos con la columna de las %s.", ColumnName(step.ColumnIndex, decimals))

	digitIndex := aligned.Width() - 1 - step.ColumnIndex
	var nonZero []string
	zeros := 0
	paddingZero := false
	for row, d := range step.Digits {
		if d != 0 {
			nonZero = append(nonZero, SpellNumber(d))
			continue
		}
		zeros++
		if aligned.IsPadding(row, digitIndex) {
			paddingZero = true
		}
	}

	trivial := len(nonZero) == 0 && step.CarryIn == 0
	if trivial {
		say("Aquí solo hay ceros, así que el resultado es cero. ¡Sencillo!")
	} else {
		if len(nonZero) > 0 {
			say("Sumamos %s.", strings.Join(nonZero, " más "))
		}
		if zeros > 0 {
			if zeros == 1 {
				say("Vemos que también hay un cero.")
			} else {
				say("Vemos que también hay %s ceros.", SpellNumber(zeros))
			}
			say("Recuerda que, aunque están ahí, no suman valor a la columna.")
		}
		if paddingZero && !paddingExplained {
			say("Uno de esos ceros lo pusimos nosotros para alinear los números. ¡Es una pequeña ayuda!")
			paddingExplained = true
		}
		if step.CarryIn > 0 {
			say("Y no olvidemos el %s que nos estábamos llevando.", SpellNumber(step.CarryIn))
		}
		say("En total, la columna suma %s.", SpellNumber(step.Sum))
		say("Por lo tanto, debajo de la línea escribimos el %s.", SpellNumber(step.ResultDigit))
	}

	if step.CarryOut > 0 {
		say("%s Como el resultado fue mayor que nueve, nos llevamos %s para la columna de las %s.",
			pick(columnCompletePhrases, step.ColumnIndex),
			SpellNumber(step.CarryOut),
			ColumnName(step.ColumnIndex+1, decimals))
	} else if !trivial {
		say("%s", pick(noCarryPhrases, step.ColumnIndex))
	}

	if decimals > 0 && step.ColumnIndex == decimals-1 {
		say("¡Momento clave! Como terminamos con los decimales, ahora ponemos la coma. ¡Y seguimos con los números enteros!")
	}

	return tidy(b.String()), paddingExplained
}

func tidy(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Summarize writes the one-line procedure entry for a step.
func Summarize(step Step, decimalPosition int) string {
	if step.IsFinalCarry {
		return fmt.Sprintf("Llevada final: el %d que nos quedaba baja directamente.", step.CarryIn)
	}

	addends := make([]string, len(step.Digits))
	for i, d := range step.Digits {
		addends[i] = strconv.Itoa(d)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Columna de las %s. Se suma %s", ColumnName(step.ColumnIndex, decimalPosition), strings.Join(addends, " + "))
	if step.CarryIn > 0 {
		fmt.Fprintf(&b, " + %d (llevada)", step.CarryIn)
	}
	fmt.Fprintf(&b, " = %d. Se escribe %d", step.Sum, step.ResultDigit)
	if step.CarryOut > 0 {
		fmt.Fprintf(&b, " y se lleva %d", step.CarryOut)
	}
	b.WriteByte('.')
	return b.String()
}

// FormatEquation renders a finished sum the way it is read in Spanish, with a
// comma as decimal separator: "12,5 + 7,25 = 19,75".
func FormatEquation(operands []string, result string) string {
	shown := make([]string, len(operands))
	for i, op := range operands {
		shown[i] = strings.ReplaceAll(op, ".", ",")
	}
	return strings.Join(shown, " + ") + " = " + strings.ReplaceAll(result, ".", ",")
}
