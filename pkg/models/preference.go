package models

// Importance is the tier attached to an extracted preference
type Importance string

const (
	ImportanceRequired   Importance = "required"
	ImportancePreferred  Importance = "preferred"
	ImportanceNiceToHave Importance = "nice_to_have"
)

// Rank orders importance tiers, higher is stronger. Unknown tiers rank 0.
func (i Importance) Rank() int {
	switch i {
	case ImportanceRequired:
		return 3
	case ImportancePreferred:
		return 2
	case ImportanceNiceToHave:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether i is one of the known tiers
func (i Importance) IsValid() bool {
	return i.Rank() > 0
}

// PreferenceKind is the closed vocabulary of soft criteria
type PreferenceKind string

const (
	PreferenceElevator        PreferenceKind = "elevator"
	PreferenceBalcony         PreferenceKind = "balcony"
	PreferenceSeaView         PreferenceKind = "seaView"
	PreferenceRenovated       PreferenceKind = "renovated"
	PreferenceNewBuild        PreferenceKind = "newBuild"
	PreferenceGroundFloor     PreferenceKind = "groundFloor"
	PreferenceQuiet           PreferenceKind = "quiet"
	PreferenceBright          PreferenceKind = "bright"
	PreferenceParking         PreferenceKind = "parking"
	PreferenceGarden          PreferenceKind = "garden"
	PreferencePool            PreferenceKind = "pool"
	PreferenceStorage         PreferenceKind = "storage"
	PreferenceFireplace       PreferenceKind = "fireplace"
	PreferenceFurnished       PreferenceKind = "furnished"
	PreferencePetFriendly     PreferenceKind = "petFriendly"
	PreferenceAirConditioning PreferenceKind = "airConditioning"
	PreferenceHeating         PreferenceKind = "heating"
	PreferenceShower          PreferenceKind = "shower"
)

var preferenceKinds = []PreferenceKind{
	PreferenceElevator,
	PreferenceBalcony,
	PreferenceSeaView,
	PreferenceRenovated,
	PreferenceNewBuild,
	PreferenceGroundFloor,
	PreferenceQuiet,
	PreferenceBright,
	PreferenceParking,
	PreferenceGarden,
	PreferencePool,
	PreferenceStorage,
	PreferenceFireplace,
	PreferenceFurnished,
	PreferencePetFriendly,
	PreferenceAirConditioning,
	PreferenceHeating,
	PreferenceShower,
}

// PreferenceKinds returns every known kind in declaration order
func PreferenceKinds() []PreferenceKind {
	kinds := make([]PreferenceKind, len(preferenceKinds))
	copy(kinds, preferenceKinds)
	return kinds
}

// IsValid reports whether k belongs to the known vocabulary
func (k PreferenceKind) IsValid() bool {
	for _, known := range preferenceKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ExtractedPreference is a single soft criterion, either inferred from notes or supplied explicitly.
// Value false means the feature is explicitly excluded.
type ExtractedPreference struct {
	Type       PreferenceKind `json:"type" yaml:"type" validate:"required"`
	Value      bool           `json:"value" yaml:"value"`
	Importance Importance     `json:"importance" yaml:"importance" validate:"required,oneof=required preferred nice_to_have"`
}
