package manifest

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/extensible/ext"
)

var log = commonlog.GetLogger("extensible.manifest")

// Errors returned by Apply.
var (
	ErrUnknownTrait = errors.New("manifest: unknown trait")
	ErrEmptyStep    = errors.New("manifest: step has no action")
)

// Apply runs the manifest's steps against o, resolving layer names in
// traits.
func (m *Manifest) Apply(o *ext.Object, traits *ext.TraitTable) error {
	if m.Host.Name != "" {
		o.Set("name", m.Host.Name)
	}
	for i, s := range m.Steps {
		if err := applyStep(o, s, traits); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Kind(), err)
		}
	}
	log.Debugf("built host %s (%s): %d steps", m.Host.Name, o.ID(), len(m.Steps))
	return nil
}

// Build creates a new object and applies the manifest to it.
func (m *Manifest) Build(traits *ext.TraitTable) (*ext.Object, error) {
	o := ext.New()
	if err := m.Apply(o, traits); err != nil {
		return nil, err
	}
	return o, nil
}

func applyStep(o *ext.Object, s Step, traits *ext.TraitTable) error {
	var err error
	switch s.Kind() {
	case "declare":
		_, err = o.Declare(s.Declare, s.Params, s.Metadata)
	case "upgrade":
		if len(s.Defaults) > 0 {
			_, err = o.UpgradeAdapted(s.Upgrade, s.Params, s.Metadata, ext.RenameAdapter(s.Defaults))
		} else {
			_, err = o.Upgrade(s.Upgrade, s.Params, s.Metadata)
		}
	case "use":
		f := traits.Lookup(s.Use)
		if f == nil {
			return fmt.Errorf("%w: %q", ErrUnknownTrait, s.Use)
		}
		_, err = o.UseFactory(f, ext.Options(s.Options))
	default:
		return ErrEmptyStep
	}
	return err
}
