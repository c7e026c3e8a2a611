package scorecard

// Mode is the editing mode selected by the configType discriminant. The
// concrete types are SingleMode, ArrayMode and CardsMode; switch on them to
// branch per mode.
type Mode interface {
	ConfigType() ConfigType
	isMode()
}

// SingleMode edits one value plus its decorations.
type SingleMode struct{}

// ArrayMode edits a list of values.
type ArrayMode struct{}

// CardsMode edits a dynamic collection of named cards.
type CardsMode struct {
	Cards       CardCollection
	ActiveIndex int
}

func (SingleMode) ConfigType() ConfigType { return ConfigSingle }
func (ArrayMode) ConfigType() ConfigType  { return ConfigArray }
func (CardsMode) ConfigType() ConfigType  { return ConfigCards }

func (SingleMode) isMode() {}
func (ArrayMode) isMode()  {}
func (CardsMode) isMode()  {}

// SingleValueFields are the dependency keys edited in single value mode.
var SingleValueFields = []string{
	CardFieldValue,
	CardFieldColor,
	CardFieldIcon,
	CardFieldSubvalue,
	CardFieldClassName,
}

// ArrayValueFields are the dependency keys edited in value array mode.
var ArrayValueFields = []string{"values"}
