package locale

// Labels holds every user-visible string of a rendered invoice. Each locale
// provides a fully populated value; TestLabelsComplete keeps it that way.
type Labels struct {
	Title            string
	InvoiceNumber    string
	InvoiceDate      string
	ServiceDate      string
	ServicePeriod    string
	BillTo           string
	Description      string
	Quantity         string
	UnitPrice        string
	Amount           string
	Subtotal         string
	VAT              string
	Total            string
	Notes            string
	SmallBusiness    string
	PaymentTerms     string // formatted with the due-day count
	DueDate          string
	AccountHolder    string
	IBAN             string
	BIC              string
	BankName         string
	PaymentReference string
	Phone            string
	Email            string
	Website          string
	TaxNumber        string
	VATID            string
	Page             string // formatted with the page number
}

var tables = [...]Labels{
	{
		Title:            "Rechnung",
		InvoiceNumber:    "Rechnungsnummer:",
		InvoiceDate:      "Rechnungsdatum:",
		ServiceDate:      "Leistungsdatum:",
		ServicePeriod:    "Leistungszeitraum:",
		BillTo:           "Rechnung an",
		Description:      "Leistung",
		Quantity:         "Menge",
		UnitPrice:        "Einzelpreis",
		Amount:           "Betrag",
		Subtotal:         "Zwischensumme",
		VAT:              "USt.",
		Total:            "Gesamt",
		Notes:            "Hinweise",
		SmallBusiness:    "Gemäß § 19 UStG (Kleinunternehmerregelung) wird keine Umsatzsteuer ausgewiesen.",
		PaymentTerms:     "Zahlungsziel: %d Tage",
		DueDate:          "Fällig am:",
		AccountHolder:    "Kontoinhaber:",
		IBAN:             "IBAN:",
		BIC:              "BIC:",
		BankName:         "Bank:",
		PaymentReference: "Verwendungszweck:",
		Phone:            "Tel.:",
		Email:            "E-Mail:",
		Website:          "Web:",
		TaxNumber:        "Steuernummer:",
		VATID:            "USt-IdNr.:",
		Page:             "Seite %d",
	},
	{
		Title:            "Invoice",
		InvoiceNumber:    "Invoice number:",
		InvoiceDate:      "Invoice date:",
		ServiceDate:      "Service date:",
		ServicePeriod:    "Service period:",
		BillTo:           "Bill to",
		Description:      "Description",
		Quantity:         "Qty",
		UnitPrice:        "Unit price",
		Amount:           "Amount",
		Subtotal:         "Subtotal",
		VAT:              "VAT",
		Total:            "Total",
		Notes:            "Notes",
		SmallBusiness:    "No VAT is charged under the small business scheme (§ 19 UStG).",
		PaymentTerms:     "Payment terms: %d days",
		DueDate:          "Due date:",
		AccountHolder:    "Account holder:",
		IBAN:             "IBAN:",
		BIC:              "BIC:",
		BankName:         "Bank:",
		PaymentReference: "Reference:",
		Phone:            "Phone:",
		Email:            "Email:",
		Website:          "Web:",
		TaxNumber:        "Tax number:",
		VATID:            "VAT ID:",
		Page:             "Page %d",
	},
}
