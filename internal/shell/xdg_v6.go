package shell

import "github.com/Iron-Ham/tessel/internal/view"

// xdgV6Toplevel drives a view backed by an xdg_shell_v6 toplevel surface.
type xdgV6Toplevel struct {
	surface Surface
}

func (t *xdgV6Toplevel) Kind() view.Kind {
	return view.KindXDGShellV6
}

func (t *xdgV6Toplevel) Property(p view.Property) (string, bool) {
	switch p {
	case view.PropTitle:
		return t.surface.Title(), true
	case view.PropAppID:
		return t.surface.AppID(), true
	default:
		return "", false
	}
}

func (t *xdgV6Toplevel) RequestSize(width, height int) error {
	t.surface.SetSize(width, height)
	return nil
}

// Activation and close only exist for the toplevel role.
func (t *xdgV6Toplevel) SetActivated(active bool) error {
	if t.surface.Role() == RoleToplevel {
		t.surface.SetActivated(active)
	}
	return nil
}

func (t *xdgV6Toplevel) Close() error {
	if t.surface.Role() == RoleToplevel {
		t.surface.Close()
	}
	return nil
}
