package app

import (
	"context"
	"strings"
	"testing"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/templates"
)

const providerPath = "app/Providers/AuthServiceProvider.php"

func newTestRegistrar(files *memFileSystem) *AuthProviderRegistrar {
	return NewAuthProviderRegistrar(files, templates.DefaultLoader(), providerPath,
		`App\Providers`, `App\Models`, `App\Policies`)
}

func TestAuthProviderRegistrar_CreatesProvider(t *testing.T) {
	files := newMemFileSystem()
	registrar := newTestRegistrar(files)

	a, err := registrar.Register(context.Background(), "Post")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if a.Operation != models.OperationCreated {
		t.Errorf("expected created, got %s", a.Operation)
	}

	content := files.files[providerPath]
	for _, want := range []string{
		`namespace App\Providers;`,
		`use App\Models\Post;`,
		`use App\Policies\PostPolicy;`,
		"protected $policies = [\n        Post::class => PostPolicy::class,\n    ];",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("provider missing %q:\n%s", want, content)
		}
	}
}

func TestAuthProviderRegistrar_Idempotent(t *testing.T) {
	files := newMemFileSystem()
	registrar := newTestRegistrar(files)
	ctx := context.Background()

	if _, err := registrar.Register(ctx, "Post"); err != nil {
		t.Fatal(err)
	}
	first := files.files[providerPath]

	a, err := registrar.Register(ctx, "Post")
	if err != nil {
		t.Fatal(err)
	}
	if a.Operation != models.OperationSkipped {
		t.Errorf("expected skipped, got %s", a.Operation)
	}
	if files.files[providerPath] != first {
		t.Error("provider changed on repeat registration")
	}
}

func TestAuthProviderRegistrar_ExistingProvider(t *testing.T) {
	files := newMemFileSystem()
	files.files[providerPath] = `<?php

namespace App\Providers;

use App\Models\Team;
use App\Policies\TeamPolicy;
use Illuminate\Foundation\Support\Providers\AuthServiceProvider as ServiceProvider;

class AuthServiceProvider extends ServiceProvider
{
    protected $policies = [
        Team::class => TeamPolicy::class,
    ];
}
`
	registrar := newTestRegistrar(files)
	ctx := context.Background()

	a, err := registrar.Register(ctx, "Post")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if a.Operation != models.OperationUpdated {
		t.Errorf("expected updated, got %s", a.Operation)
	}

	content := files.files[providerPath]
	if !strings.Contains(content, "use Illuminate\\Foundation\\Support\\Providers\\AuthServiceProvider as ServiceProvider;\nuse App\\Models\\Post;\nuse App\\Policies\\PostPolicy;") {
		t.Errorf("imports not appended after the last use statement:\n%s", content)
	}
	if !strings.Contains(content, "Post::class => PostPolicy::class,\n        Team::class => TeamPolicy::class,") {
		t.Errorf("mapping not inserted at the top of $policies:\n%s", content)
	}

	if _, err := registrar.Unregister(ctx, "Post"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	content = files.files[providerPath]
	if strings.Contains(content, "Post") {
		t.Errorf("Post registration left behind:\n%s", content)
	}
	if !strings.Contains(content, "Team::class => TeamPolicy::class,") {
		t.Errorf("unrelated mapping removed:\n%s", content)
	}
}

func TestAuthProviderRegistrar_UnregisterMissingProvider(t *testing.T) {
	registrar := newTestRegistrar(newMemFileSystem())

	a, err := registrar.Unregister(context.Background(), "Post")
	if err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if a.Operation != models.OperationSkipped {
		t.Errorf("expected skipped, got %s", a.Operation)
	}
}

func TestAuthProviderRegistrar_MissingAnchor(t *testing.T) {
	files := newMemFileSystem()
	files.files[providerPath] = "<?php\n\nnamespace App\\Providers;\n\nclass AuthServiceProvider\n{\n}\n"
	registrar := newTestRegistrar(files)

	if _, err := registrar.Register(context.Background(), "Post"); err == nil {
		t.Error("expected error when $policies is absent")
	}
}
