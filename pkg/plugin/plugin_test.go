package plugin

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

type fakePlugin struct {
	name string
}

func (f *fakePlugin) Name() string        { return f.name }
func (f *fakePlugin) Description() string { return "fake" }

func (f *fakePlugin) Validate(site *model.SiteConfig) error { return nil }

func (f *fakePlugin) Generate(ctx context.Context, site *model.SiteConfig) (*render.Bundle, error) {
	return &render.Bundle{Site: site.Name, Vendor: f.name}, nil
}

func (f *fakePlugin) Deploy(ctx context.Context, bundle *render.Bundle, opts deploy.Options) error {
	return nil
}

func TestRegistry(t *testing.T) {
	Register(&fakePlugin{name: "zz-test"})
	Register(&fakePlugin{name: "aa-test"})

	t.Run("get registered", func(t *testing.T) {
		p, err := Get("zz-test")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if p.Name() != "zz-test" {
			t.Errorf("Name = %s", p.Name())
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := Get("cisco")
		if !errors.Is(err, util.ErrVendorNotSupported) {
			t.Errorf("Expected ErrVendorNotSupported, got: %v", err)
		}
	})

	t.Run("names sorted", func(t *testing.T) {
		names := Names()
		want := []string{"aa-test", "zz-test"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("Names = %v, want %v", names, want)
		}
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic on duplicate registration")
			}
		}()
		Register(&fakePlugin{name: "zz-test"})
	})
}
