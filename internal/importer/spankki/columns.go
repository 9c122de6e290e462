package spankki

// Column labels of the S-Pankki account export.
const (
	colPaymentDate  = "Maksupäivä"
	colBookingDate  = "Kirjauspäivä"
	colPayer        = "Maksaja"
	colPayeeName    = "Saajan nimi"
	colPayeeAccount = "Saajan tilinumero"
	colPayeeBIC     = "Saajan BIC-tunnus"
	colReference    = "Viitenumero"
	colArchiveID    = "Arkistointitunnus"
	colType         = "Tapahtumalaji"
	colMessage      = "Viesti"
	colAmount       = "Summa"
)

// requiredCols must all be present for a row to be taken as the header.
// The remaining columns are read when present; none of them survive normalization.
var requiredCols = []string{
	colPaymentDate,
	colPayer,
	colPayeeName,
	colType,
	colMessage,
	colAmount,
}

// colIndex maps column labels to their index in a row.
type colIndex map[string]int

func (c colIndex) hasAll(names []string) bool {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return false
		}
	}

	return true
}
