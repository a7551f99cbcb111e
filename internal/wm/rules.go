package wm

// Rule overrides policy for windows of one class. Nil fields keep the
// default.
type Rule struct {
	Class              string
	FocusStealing      *Level
	FocusProtection    *Level
	AcceptFocus        *bool
	StealingWorkaround *bool
}

// Rules resolves per-window policy verdicts from defaults and class rules.
type Rules struct {
	stealing   Level
	protection Level
	byClass    map[string]Rule
}

func NewRules(stealing, protection Level, rules []Rule) *Rules {
	r := &Rules{
		stealing:   stealing,
		protection: protection,
		byClass:    make(map[string]Rule, len(rules)),
	}
	for _, rule := range rules {
		r.byClass[rule.Class] = rule
	}
	return r
}

// Resolve computes the policy for a window of the given class.
func (r *Rules) Resolve(class string, wantsInput bool) Policy {
	p := Policy{
		FocusStealing:   r.stealing,
		FocusProtection: r.protection,
		WantsInput:      wantsInput,
	}
	rule, ok := r.byClass[class]
	if !ok {
		return p
	}
	if rule.FocusStealing != nil {
		p.FocusStealing = *rule.FocusStealing
	}
	if rule.FocusProtection != nil {
		p.FocusProtection = *rule.FocusProtection
	}
	if rule.AcceptFocus != nil {
		p.AcceptFocusIfZeroTime = *rule.AcceptFocus
	}
	if rule.StealingWorkaround != nil {
		p.StealingWorkaround = *rule.StealingWorkaround
	}
	return p
}
