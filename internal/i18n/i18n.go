// Package i18n holds the dashboard's user-facing strings.
package i18n

import (
	"golang.org/x/text/language"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "en"

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

var translations = map[string]map[string]string{
	"en": {
		"required":                  "Required",
		"invoice.customer_required": "Please select a customer.",
		"invoice.amount_positive":   "Please enter an amount greater than $0",
		"invoice.status_invalid":    "Please select an invoice status.",
		"invoice.amount_precision":  "Amounts can have at most two decimal places.",
		"invoice.amount_too_large":  "This amount is too large.",
		"invoice.create_invalid":    "Missing Fields. Failed to Create Invoice.",
		"invoice.update_invalid":    "Missing Fields. Failed to Update Invoice.",
		"invoice.create_db_error":   "Database Error: Failed to Create Invoice.",
		"invoice.update_db_error":   "Database Error: Failed to Update Invoice.",
		"invoice.delete_db_error":   "Database Error: Failed to Delete Invoice.",
		"invoice.bad_request":       "The form submission could not be read.",
		"invoice.not_found":         "Invoice not found.",
		"invoices.title":            "Invoices",
		"invoices.create":           "Create Invoice",
		"invoices.edit":             "Edit Invoice",
		"invoices.search":           "Search invoices...",
		"invoices.empty":            "No invoices yet.",
		"invoices.customer":         "Customer",
		"invoices.amount":           "Amount",
		"invoices.status":           "Status",
		"invoices.date":             "Date",
		"invoices.paid":             "Paid",
		"invoices.pending":          "Pending",
		"invoices.save":             "Save",
		"invoices.cancel":           "Cancel",
		"invoices.delete":           "Delete",
		"invoices.choose_customer":  "Select a customer",
	},
	"fr": {
		"required":                  "Requis",
		"invoice.customer_required": "Veuillez sélectionner un client.",
		"invoice.amount_positive":   "Veuillez saisir un montant supérieur à 0 $",
		"invoice.status_invalid":    "Veuillez choisir un statut de facture.",
		"invoice.amount_precision":  "Les montants ont au plus deux décimales.",
		"invoice.amount_too_large":  "Ce montant est trop élevé.",
		"invoice.create_invalid":    "Champs manquants. Échec de la création de la facture.",
		"invoice.update_invalid":    "Champs manquants. Échec de la mise à jour de la facture.",
		"invoice.create_db_error":   "Erreur de base de données : échec de la création de la facture.",
		"invoice.update_db_error":   "Erreur de base de données : échec de la mise à jour de la facture.",
		"invoice.delete_db_error":   "Erreur de base de données : échec de la suppression de la facture.",
		"invoice.bad_request":       "Le formulaire n'a pas pu être lu.",
		"invoice.not_found":         "Facture introuvable.",
		"invoices.title":            "Factures",
		"invoices.create":           "Créer une facture",
		"invoices.edit":             "Modifier la facture",
		"invoices.search":           "Rechercher des factures...",
		"invoices.empty":            "Aucune facture pour le moment.",
		"invoices.customer":         "Client",
		"invoices.amount":           "Montant",
		"invoices.status":           "Statut",
		"invoices.date":             "Date",
		"invoices.paid":             "Payée",
		"invoices.pending":          "En attente",
		"invoices.save":             "Enregistrer",
		"invoices.cancel":           "Annuler",
		"invoices.delete":           "Supprimer",
		"invoices.choose_customer":  "Choisir un client",
	},
}

// T translates code into lang, falling back to the default language, then to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Supported reports whether lang has a translation table.
func Supported(lang string) bool {
	_, ok := translations[lang]
	return ok
}

// DetectLanguage picks the best supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := supported[idx].Base()
	return base.String()
}
