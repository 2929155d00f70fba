package model

type BoatType string

const (
	BoatTypePontoon  BoatType = "Pontoon"
	BoatTypeFishing  BoatType = "Fishing"
	BoatTypeDeckBoat BoatType = "Deck Boat"
	BoatTypeBowrider BoatType = "Bowrider"
	BoatTypeCruiser  BoatType = "Cruiser"
	BoatTypeWakeSki  BoatType = "Wake/Ski Boat"
	BoatTypeOther    BoatType = "Other"
)

// BoatTypes lists the accepted boat types in form order.
func BoatTypes() []BoatType {
	return []BoatType{
		BoatTypePontoon,
		BoatTypeFishing,
		BoatTypeDeckBoat,
		BoatTypeBowrider,
		BoatTypeCruiser,
		BoatTypeWakeSki,
		BoatTypeOther,
	}
}

func IsBoatType(s string) bool {
	for _, bt := range BoatTypes() {
		if string(bt) == s {
			return true
		}
	}
	return false
}

func BoatTypeNames() []string {
	types := BoatTypes()
	names := make([]string, len(types))
	for i, bt := range types {
		names[i] = string(bt)
	}
	return names
}

type CosmeticCondition string

const (
	CosmeticExcellent CosmeticCondition = "Excellent"
	CosmeticGood      CosmeticCondition = "Good"
	CosmeticFair      CosmeticCondition = "Fair"
	CosmeticPoor      CosmeticCondition = "Poor"
)

type MechanicalCondition string

const (
	MechanicalTurnKey     MechanicalCondition = "Turn-Key"
	MechanicalMinorIssues MechanicalCondition = "Minor Issues"
	MechanicalNeedsRepair MechanicalCondition = "Needs Repair"
)

// BoatProfile is the boat being valued. It is built once from a validated
// form and not modified afterwards.
type BoatProfile struct {
	BoatType            BoatType
	Year                int
	Make                string
	Model               string
	Horsepower          int
	EngineHours         int
	Trailer             bool
	CosmeticCondition   CosmeticCondition
	MechanicalCondition MechanicalCondition
	HIN                 string
	EngineMake          string
}

type ContactDetails struct {
	FullName   string
	Email      string
	Phone      string
	PostalCode string
}

// TradeInForm is everything the customer submits across the form steps.
type TradeInForm struct {
	Boat    BoatProfile
	Contact ContactDetails
}

// Photo is a decoded customer photo sent alongside the estimate prompt.
type Photo struct {
	MIMEType string
	Data     []byte
}
