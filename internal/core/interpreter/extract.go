package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"ganadero/internal/core/herd"
)

// patterns run over the raw text, case insensitive, with accented letters spelled out
var (
	firstIntRe = regexp.MustCompile(`(\d+)`)
	doseRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s?ml)`)

	alSplitRe = regexp.MustCompile(`(?i)\sal\s+`)
	fromRe    = regexp.MustCompile(`(?i)\b(?:desde|del|de\s+la|de\s+los|de\s+las|de)\s+(?:(?:el|la|los|las)\s+)?(.+)$`)
	toRe      = regexp.MustCompile(`(?i)^([^,]+?)(?:\s+hoy|,|$)`)

	vaccineProductRe   = regexp.MustCompile(`(?i)vacunar\s+[^,]+\s+([a-záéíóúñ\s]+)`)
	dewormProductRe    = regexp.MustCompile(`(?i)desparasitar\s+[^,]+\s+([a-záéíóúñ\s]+)`)
	treatmentProductRe = regexp.MustCompile(`(?i)(?:tratar|tratamiento)\s+[^,]+\s+([a-záéíóúñ\s]+)`)

	bullsRe         = regexp.MustCompile(`(?i)con\s+(\d+)\s+toros`)
	breedingFromRe  = regexp.MustCompile(`(?i)desde\s+(\S+)\s+hasta`)
	breedingUntilRe = regexp.MustCompile(`(?i)hasta\s+(\S+)`)

	herdCodeRe = regexp.MustCompile(`(?i)lote\s+([a-z0-9-]+)`)
	weightRe   = regexp.MustCompile(`(?i)peso\s+(\d+)`)

	brandingQtyRe = regexp.MustCompile(`(?i)yerra\s+(\d+)`)
	castrateRe    = regexp.MustCompile(`(?i)castrar\s+(\d+)`)

	consignorRe      = regexp.MustCompile(`(?i)consignatario\s+([^:]+):`)
	slaughterhouseRe = regexp.MustCompile(`(?i)frigor[ií]fico\s+([^p]+?)\s+por`)
	itemRe           = regexp.MustCompile(`(?i)(\d+)\s+([a-záéíóúñ\s]+?)\s+a\s+(\d+)`)
)

// submatch returns the trimmed first group of re in s
func submatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// intOrNil returns the first group of re as an int, or nil
func intOrNil(re *regexp.Regexp, s string) any {
	v, ok := submatch(re, s)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return n
}

// stringOrNil keeps payload nulls explicit
func stringOrNil(v string, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func categoryOrNil(text string) (any, bool) {
	c, ok := herd.FindCategory(text)
	if !ok {
		return nil, false
	}
	return string(c), true
}

func (it *Interpreter) resolveID(name string, ok bool, catalog []herd.NameEntity) any {
	if !ok || name == "" {
		return nil
	}
	r := it.fuzzy.Resolve(name, catalog)
	if r.Match == nil {
		return nil
	}
	return r.Match.ID
}

func (it *Interpreter) extractMove(in input) extraction {
	x := extraction{confidence: 0.7}
	qty := intOrNil(firstIntRe, in.text)
	category, hasCategory := categoryOrNil(in.text)

	parts := alSplitRe.Split(in.text, -1)
	var fromID, toID any
	from, fromOK := submatch(fromRe, parts[0])
	fromID = it.resolveID(from, fromOK, in.ctx.Paddocks)
	if len(parts) > 1 {
		to, toOK := submatch(toRe, parts[1])
		toID = it.resolveID(to, toOK, in.ctx.Paddocks)
	}

	// zero heads is as good as no quantity, confirm rejects both
	if qty == nil || qty == 0 {
		x.warnings = append(x.warnings, "Falta cantidad a mover.")
	}
	if !hasCategory {
		x.warnings = append(x.warnings, "Falta categoría del lote.")
	}
	if fromID == nil {
		x.warnings = append(x.warnings, "No se pudo identificar el potrero de origen.")
	}
	if toID == nil {
		x.warnings = append(x.warnings, "No se pudo identificar el potrero de destino.")
	}

	x.op = ProposedOperation{
		OccurredAt: it.dates.Resolve(in.text),
		Payload: map[string]any{
			"qty":           qty,
			"category":      category,
			"fromPaddockId": fromID,
			"toPaddockId":   toID,
		},
	}
	return x
}

// healthRule describes the three health intents, which share one payload shape
type healthRule struct {
	confidence     float64
	productRe      *regexp.Regexp
	defaultProduct any
	missingWarning string
}

var (
	vaccinationRule = healthRule{0.65, vaccineProductRe, nil, "Falta categoría del lote a vacunar."}
	dewormingRule   = healthRule{0.65, dewormProductRe, "desparasitación", "Falta categoría del lote a desparasitar."}
	treatmentRule   = healthRule{0.6, treatmentProductRe, "tratamiento", "Falta categoría del lote en tratamiento."}
)

func (it *Interpreter) extractVaccination(in input) extraction { return it.extractHealth(in, vaccinationRule) }
func (it *Interpreter) extractDeworming(in input) extraction   { return it.extractHealth(in, dewormingRule) }
func (it *Interpreter) extractTreatment(in input) extraction   { return it.extractHealth(in, treatmentRule) }

func (it *Interpreter) extractHealth(in input, hr healthRule) extraction {
	x := extraction{confidence: hr.confidence}
	category, hasCategory := categoryOrNil(in.text)
	if !hasCategory {
		x.warnings = append(x.warnings, hr.missingWarning)
	}
	product := hr.defaultProduct
	if p, ok := submatch(hr.productRe, in.text); ok {
		product = p
	}
	dose, hasDose := submatch(doseRe, in.text)

	x.op = ProposedOperation{
		OccurredAt: it.dates.Resolve(in.text),
		Payload: map[string]any{
			"qty":      intOrNil(firstIntRe, in.text),
			"category": category,
			"product":  product,
			"dose":     stringOrNil(dose, hasDose),
		},
	}
	return x
}

func (it *Interpreter) extractBreedingStart(in input) extraction {
	category := herd.Vacas
	if c, ok := herd.FindCategory(in.text); ok {
		category = c
	}
	from, _ := submatch(breedingFromRe, in.text)
	until, _ := submatch(breedingUntilRe, in.text)

	return extraction{
		confidence: 0.7,
		op: ProposedOperation{
			OccurredAt: it.dates.Resolve(from),
			Payload: map[string]any{
				"category": string(category),
				"bulls":    intOrNil(bullsRe, in.text),
				"endAt":    FormatInstant(it.dates.Resolve(until)),
			},
		},
	}
}

func (it *Interpreter) extractWeaning(in input) extraction {
	x := extraction{confidence: 0.75}
	c, hasCategory := herd.FindCategory(in.text)
	if !hasCategory {
		x.warnings = append(x.warnings, "Falta categoría del lote a destetar.")
	}
	to := herd.TernerosDestetados
	if c == herd.Terneras {
		to = herd.Vaquillonas
	}
	code, hasCode := submatch(herdCodeRe, in.text)

	var category any
	if hasCategory {
		category = string(c)
	}
	x.op = ProposedOperation{
		OccurredAt: it.dates.Resolve(in.text),
		Payload: map[string]any{
			"qty":         intOrNil(firstIntRe, in.text),
			"category":    category,
			"toCategory":  string(to),
			"herdCode":    stringOrNil(strings.ToUpper(code), hasCode),
			"avgWeightKg": intOrNil(weightRe, in.text),
		},
	}
	return x
}

func (it *Interpreter) extractBranding(in input) extraction {
	return extraction{
		confidence: 0.7,
		op: ProposedOperation{
			OccurredAt: it.dates.Resolve(in.text),
			Payload: map[string]any{
				"qty":         intOrNil(brandingQtyRe, in.text),
				"castrateQty": intOrNil(castrateRe, in.text),
			},
		},
	}
}

// ShipmentItem is one priced line of a slaughter shipment preview
type ShipmentItem struct {
	Qty       int            `json:"qty"`
	Category  *herd.Category `json:"category"`
	UnitPrice int            `json:"unitPrice"`
}

func (it *Interpreter) extractSlaughter(in input) extraction {
	x := extraction{confidence: 0.8}
	consignor, cOK := submatch(consignorRe, in.text)
	house, hOK := submatch(slaughterhouseRe, in.text)
	consignorID := it.resolveID(consignor, cOK, in.ctx.Consignors)
	houseID := it.resolveID(house, hOK, in.ctx.Slaughterhouses)

	items := []ShipmentItem{}
	uncategorized := false
	for _, m := range itemRe.FindAllStringSubmatch(in.text, -1) {
		qty, _ := strconv.Atoi(m[1])
		price, _ := strconv.Atoi(m[3])
		item := ShipmentItem{Qty: qty, UnitPrice: price}
		if c, ok := herd.FindCategory(m[2]); ok {
			item.Category = &c
		} else {
			uncategorized = true
		}
		items = append(items, item)
	}

	if consignorID == nil {
		x.warnings = append(x.warnings, "Consignatario no identificado.")
	}
	if houseID == nil {
		x.warnings = append(x.warnings, "Frigorífico no identificado.")
	}
	if uncategorized {
		x.warnings = append(x.warnings, "Faltan categorías en los ítems.")
	}
	x.warnings = append(x.warnings, "Se requiere asignar lotes para confirmar la consignación.")
	x.edits = append(x.edits, "Asignar herd_id a cada ítem antes de confirmar.")

	x.op = ProposedOperation{
		OccurredAt: it.dates.Resolve(in.text),
		Payload: map[string]any{
			"consignorId":      consignorID,
			"slaughterhouseId": houseID,
			"items":            items,
		},
	}
	return x
}
