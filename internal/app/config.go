package app

import (
	"fmt"

	"focus-warden/internal/activation"
	"focus-warden/internal/wm"
	"focus-warden/pkg/config"
)

func optionsFromConfig(cfg *config.Config) (activation.Options, error) {
	policy, err := activation.ParseFocusPolicy(cfg.GetFocusPolicy())
	if err != nil {
		return activation.Options{}, fmt.Errorf("failed to read focus policy: %w", err)
	}
	return activation.Options{
		FocusPolicy:           policy,
		NextFocusPrefersMouse: cfg.GetNextFocusPrefersMouse(),
		SeparateScreenFocus:   cfg.GetSeparateScreenFocus(),
		SynchronousFocus:      cfg.GetSynchronousFocus(),
	}, nil
}

func rulesFromConfig(cfg *config.Config) *wm.Rules {
	var rules []wm.Rule
	for _, r := range cfg.GetRules() {
		rules = append(rules, wm.Rule{
			Class:              r.Class,
			FocusStealing:      levelPtr(r.FocusStealing),
			FocusProtection:    levelPtr(r.FocusProtection),
			AcceptFocus:        r.AcceptFocus,
			StealingWorkaround: r.StealingWorkaround,
		})
	}
	return wm.NewRules(
		wm.Level(cfg.GetFocusStealingPrevention()),
		wm.Level(cfg.GetFocusProtection()),
		rules,
	)
}

func levelPtr(v *int) *wm.Level {
	if v == nil {
		return nil
	}
	l := wm.Level(*v)
	return &l
}
