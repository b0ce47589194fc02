package payments

import "strings"

// CreditPack is a purchasable bundle of credits. The agency pack also
// carries a 30 day business subscription window.
type CreditPack struct {
	Line             string `json:"line"`
	Credits          int64  `json:"credits"`
	PriceMinor       int64  `json:"price_minor"` // agorot
	IncludesBusiness bool   `json:"includes_business"`
}

// PackLineAgency is the pack that doubles as a business subscription.
const PackLineAgency = "agency"

// BusinessPriceMinor is the standalone 30 day business subscription price.
const BusinessPriceMinor int64 = 9900

// creditPacks is the catalog keyed by pack line.
var creditPacks = map[string]CreditPack{
	"starter": {Line: "starter", Credits: 50, PriceMinor: 2900},
	"pro":     {Line: "pro", Credits: 200, PriceMinor: 7900},
	"agency":  {Line: "agency", Credits: 500, PriceMinor: 19900, IncludesBusiness: true},
}

// LookupPack resolves a pack line from webhook metadata.
func LookupPack(line string) (CreditPack, bool) {
	pack, ok := creditPacks[strings.ToLower(strings.TrimSpace(line))]
	return pack, ok
}

// Packs returns the catalog in a stable order for listing endpoints.
func Packs() []CreditPack {
	return []CreditPack{creditPacks["starter"], creditPacks["pro"], creditPacks["agency"]}
}
