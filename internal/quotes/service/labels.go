package service

// NotSpecifiedBudget is shown for budget codes missing from the table.
const NotSpecifiedBudget = "No especificado"

const budgetLinePrefix = "\n\nPresupuesto aproximado: "

var serviceLabels = map[string]string{
	"closets":     "Closets a Medida",
	"cocinas":     "Cocinas Integrales",
	"muebles":     "Muebles a Medida",
	"carpinteria": "Carpintería General",
	"diseno":      "Diseño Personalizado",
	"otro":        "Otro",
}

var budgetLabels = map[string]string{
	"menos-1m": "Menos de $1.000.000",
	"1m-3m":    "$1.000.000 - $3.000.000",
	"3m-5m":    "$3.000.000 - $5.000.000",
	"mas-5m":   "Más de $5.000.000",
}

// ServiceLabel maps a service code to its display label. Unknown codes pass
// through unchanged.
func ServiceLabel(code string) string {
	if label, ok := serviceLabels[code]; ok {
		return label
	}
	return code
}

// BudgetLabel maps a budget code to its display label.
func BudgetLabel(code string) string {
	if label, ok := budgetLabels[code]; ok {
		return label
	}
	return NotSpecifiedBudget
}

// ComposeMessage appends the budget line to message when a budget was chosen.
func ComposeMessage(message, budgetCode string) string {
	if budgetCode == "" {
		return message
	}
	return message + budgetLinePrefix + BudgetLabel(budgetCode)
}

// ServiceCodes returns the known service codes in display order.
func ServiceCodes() []string {
	return []string{"closets", "cocinas", "muebles", "carpinteria", "diseno", "otro"}
}

// BudgetCodes returns the known budget codes from lowest to highest.
func BudgetCodes() []string {
	return []string{"menos-1m", "1m-3m", "3m-5m", "mas-5m"}
}
