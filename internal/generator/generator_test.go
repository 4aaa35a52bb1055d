package generator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/apigen/internal/adapters/filesystem"
	"github.com/example/apigen/internal/adapters/framework"
	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/generator"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/naming"
	"github.com/example/apigen/internal/scaffold"
	"github.com/example/apigen/internal/templates"
)

var fixedClock = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

type testEnv struct {
	root string
	deps generator.Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	files, err := filesystem.NewProjectAdapter(root)
	require.NoError(t, err)

	stubs := templates.DefaultLoader()
	return &testEnv{
		root: root,
		deps: generator.Deps{
			Files:     files,
			Stubs:     stubs,
			Framework: framework.NewSkeletonWriter(files, stubs),
			Layout:    generator.DefaultLayout(),
			Clock:     fixedClock,
		},
	}
}

func (e *testEnv) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) runAll(t *testing.T, entity *models.EntityDefinition) []models.Artifact {
	t.Helper()
	generators, err := generator.Build(nil, nil, e.deps)
	require.NoError(t, err)

	var artifacts []models.Artifact
	for _, g := range generators {
		if !g.Supports(entity) {
			continue
		}
		result, err := g.Generate(context.Background(), entity)
		require.NoError(t, err, g.Type())
		artifacts = append(artifacts, result.Artifacts...)
	}
	return artifacts
}

func mustRel(t *testing.T, relType models.RelationshipType, related, role string, opts ...models.RelationshipOption) models.RelationshipDefinition {
	t.Helper()
	r, err := models.NewRelationshipDefinition(relType, related, role, opts...)
	require.NoError(t, err)
	return r
}

func mustField(t *testing.T, name, fieldType string) models.FieldDefinition {
	t.Helper()
	f, err := models.NewFieldDefinition(name, fieldType)
	require.NoError(t, err)
	return f
}

func TestGenerate_Post(t *testing.T) {
	env := newTestEnv(t)
	post, err := scaffold.BuildEntity("post", "title:string,content:text,published:boolean")
	require.NoError(t, err)

	artifacts := env.runAll(t, post)
	require.Len(t, artifacts, 10)
	for _, a := range artifacts {
		assert.NotEqual(t, models.OperationSkipped, a.Operation, a.Path)
	}

	for _, a := range env.deps.Layout.Artifacts("Post") {
		assert.FileExists(t, filepath.Join(env.root, a.Path), a.Kind)
	}
	assert.FileExists(t, filepath.Join(env.root, "database/migrations/2024_01_02_030405_create_posts_table.php"))

	model := env.read(t, "app/Models/Post.php")
	assert.Contains(t, model, "class Post extends Model")
	assert.Contains(t, model, `use Illuminate\Database\Eloquent\Model;`)
	assert.Contains(t, model, "protected $fillable = ['title', 'content', 'published'];")

	dto := env.read(t, "app/DTO/PostDTO.php")
	assert.Contains(t, dto, "public ?string $title,")
	assert.Contains(t, dto, "public ?string $content,")
	assert.Contains(t, dto, "public ?bool $published,")
	assert.Contains(t, dto, "published: $request->get('published'),")

	request := env.read(t, "app/Http/Requests/PostRequest.php")
	assert.Contains(t, request, "'title' => 'sometimes|string|max:255',")
	assert.Contains(t, request, "'content' => 'sometimes|string',")
	assert.Contains(t, request, "'published' => 'sometimes|boolean',")

	factory := env.read(t, "database/factories/PostFactory.php")
	assert.Contains(t, factory, "'title' => fake()->word(),")
	assert.Contains(t, factory, "'content' => fake()->sentence(),")
	assert.Contains(t, factory, "'published' => fake()->boolean(),")

	resource := env.read(t, "app/Http/Resources/PostResource.php")
	assert.Contains(t, resource, "'content' => $this->content,")

	seeder := env.read(t, "database/seeders/PostSeeder.php")
	assert.Contains(t, seeder, `\App\Models\Post::factory(10)->create();`)

	migration := env.read(t, "database/migrations/2024_01_02_030405_create_posts_table.php")
	assert.Contains(t, migration, "$table->string('title')->nullable();")
	assert.Contains(t, migration, "$table->boolean('published')->nullable();")
	assert.Contains(t, migration, "$table->timestamps();")

	controller := env.read(t, "app/Http/Controllers/PostController.php")
	assert.Contains(t, controller, "class PostController extends Controller")
	assert.Contains(t, controller, `use App\Services\PostService;`)
	assert.Contains(t, controller, `use App\DTO\PostDTO;`)
	assert.Contains(t, controller, "$posts = $this->service->getAll();")
	assert.Contains(t, controller, "public function show(Post $post)")
	assert.Contains(t, controller, "return response(null, 204);")
	assert.NotContains(t, controller, "    //\n")

	policy := env.read(t, "app/Policies/PostPolicy.php")
	assert.NotContains(t, policy, "return false;")
	assert.Contains(t, policy, "return true;")
	assert.Contains(t, policy, "SECURITY")
}

func TestGenerate_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	post, err := scaffold.BuildEntity("Post", "title:string,price:decimal,published_at:datetime")
	require.NoError(t, err)

	first := env.runAll(t, post)
	snapshot := make(map[string]string, len(first))
	for _, a := range first {
		snapshot[a.Path] = env.read(t, a.Path)
	}

	second := env.runAll(t, post)
	require.Len(t, second, len(first))
	for i, a := range second {
		assert.Equal(t, first[i].Path, a.Path)
		assert.Equal(t, models.OperationSkipped, a.Operation, a.Path)
		assert.Equal(t, snapshot[a.Path], env.read(t, a.Path), a.Path)
	}
}

func TestGenerate_DateFieldsInDTO(t *testing.T) {
	env := newTestEnv(t)
	event, err := scaffold.BuildEntity("Event", "starts_at:datetime,capacity:integer,meta:json")
	require.NoError(t, err)

	g := generator.NewDTOGenerator(env.deps)
	_, err = g.Generate(context.Background(), event)
	require.NoError(t, err)

	dto := env.read(t, "app/DTO/EventDTO.php")
	assert.Contains(t, dto, `public ?\DateTimeInterface $starts_at,`)
	assert.Contains(t, dto, "public ?int $capacity,")
	assert.Contains(t, dto, "public ?array $meta,")
	assert.Contains(t, dto, `starts_at: $request->filled('starts_at') ? \Carbon\Carbon::parse($request->get('starts_at')) : null,`)
}

func TestRequest_ExplicitRulesTakePrecedence(t *testing.T) {
	env := newTestEnv(t)
	email, err := models.NewFieldDefinition("email", "string", models.WithValidationRules("required", "email"))
	require.NoError(t, err)
	user, err := models.NewEntityDefinition("User",
		[]models.FieldDefinition{email, mustField(t, "age", "integer")}, nil)
	require.NoError(t, err)

	_, err = generator.NewRequestGenerator(env.deps).Generate(context.Background(), user)
	require.NoError(t, err)

	request := env.read(t, "app/Http/Requests/UserRequest.php")
	assert.Contains(t, request, "'email' => 'required|email',")
	assert.NotContains(t, request, "'email' => 'sometimes|")
	assert.Contains(t, request, "'age' => 'sometimes|integer',")
}

func TestGenerate_BelongsTo(t *testing.T) {
	env := newTestEnv(t)
	order, err := models.NewEntityDefinition("Order",
		[]models.FieldDefinition{mustField(t, "total", "decimal")},
		[]models.RelationshipDefinition{
			mustRel(t, models.ManyToOne, "Customer", "customer"),
			mustRel(t, models.ManyToOne, "User", "approver", models.WithForeignKey("approved_by")),
		})
	require.NoError(t, err)

	env.runAll(t, order)

	model := env.read(t, "app/Models/Order.php")
	assert.Contains(t, model, `use App\Models\Customer;`)
	assert.Contains(t, model, "return $this->belongsTo(Customer::class);")
	assert.Contains(t, model, "return $this->belongsTo(User::class, 'approved_by');")
	assert.Contains(t, model, "protected $fillable = ['total', 'customer_id', 'approved_by'];")

	migration := env.read(t, "database/migrations/2024_01_02_030405_create_orders_table.php")
	assert.Contains(t, migration, "$table->decimal('total', 8, 2)->nullable();")
	assert.Contains(t, migration, "$table->foreignId('customer_id')->nullable()->constrained('customers')->onDelete('set null');")
	assert.Contains(t, migration, "$table->foreignId('approved_by')->nullable()->constrained('users')->onDelete('set null');")
}

func TestGenerate_ModelParentAndRelationshipOrder(t *testing.T) {
	env := newTestEnv(t)
	admin, err := models.NewEntityDefinition("Admin", nil,
		[]models.RelationshipDefinition{
			mustRel(t, models.ManyToMany, "Role", "roles"),
			mustRel(t, models.OneToMany, "Post", "posts"),
			mustRel(t, models.OneToOne, "Profile", "profile"),
			mustRel(t, models.ManyToOne, "User", "user"),
		},
		models.WithParent("User"))
	require.NoError(t, err)

	g := generator.NewModelGenerator(env.deps)
	_, err = g.Generate(context.Background(), admin)
	require.NoError(t, err)

	model := env.read(t, "app/Models/Admin.php")
	assert.Contains(t, model, "class Admin extends User")
	assert.NotContains(t, model, `use Illuminate\Database\Eloquent\Model;`)
	assert.NotContains(t, model, `use App\Models\User;`)
	assert.Contains(t, model, `use App\Models\Role;`)

	hasOne := strings.Index(model, "hasOne(Profile::class)")
	hasMany := strings.Index(model, "hasMany(Post::class)")
	belongsTo := strings.Index(model, "belongsTo(User::class)")
	belongsToMany := strings.Index(model, "belongsToMany(Role::class)")
	assert.True(t, hasOne < hasMany && hasMany < belongsTo && belongsTo < belongsToMany,
		"relationships out of order:\n%s", model)
}

func TestPivotMigration_SharedBetweenSides(t *testing.T) {
	env := newTestEnv(t)
	post, err := models.NewEntityDefinition("Post", nil,
		[]models.RelationshipDefinition{mustRel(t, models.ManyToMany, "Tag", "tags")})
	require.NoError(t, err)
	tag, err := models.NewEntityDefinition("Tag", nil,
		[]models.RelationshipDefinition{mustRel(t, models.ManyToMany, "Post", "posts")})
	require.NoError(t, err)

	assert.Equal(t, generator.PivotFor("Post", post.Relationships()[0]).Table,
		generator.PivotFor("Tag", tag.Relationships()[0]).Table)

	g := generator.NewPivotMigrationGenerator(env.deps)
	require.True(t, g.Supports(post))

	created, err := g.Generate(context.Background(), post)
	require.NoError(t, err)
	require.Len(t, created.Artifacts, 1)
	assert.Equal(t, "database/migrations/2024_01_02_030405_create_post_tag_table.php", created.Artifacts[0].Path)
	assert.Equal(t, models.OperationCreated, created.Artifacts[0].Operation)

	content := env.read(t, created.Artifacts[0].Path)
	assert.Contains(t, content, "$table->foreignId('post_id')->constrained('posts')->onDelete('cascade');")
	assert.Contains(t, content, "$table->foreignId('tag_id')->constrained('tags')->onDelete('cascade');")
	assert.Contains(t, content, "$table->primary(['post_id', 'tag_id']);")

	skipped, err := g.Generate(context.Background(), tag)
	require.NoError(t, err)
	require.Len(t, skipped.Artifacts, 1)
	assert.Equal(t, created.Artifacts[0].Path, skipped.Artifacts[0].Path)
	assert.Equal(t, models.OperationSkipped, skipped.Artifacts[0].Operation)
}

func TestPivotFor_SelfReferencing(t *testing.T) {
	env := newTestEnv(t)
	person, err := models.NewEntityDefinition("Person", nil,
		[]models.RelationshipDefinition{mustRel(t, models.ManyToMany, "Person", "friends")})
	require.NoError(t, err)

	pivot := generator.PivotFor("Person", person.Relationships()[0])
	assert.True(t, pivot.SelfReferencing)
	assert.Equal(t, "person_person", pivot.Table)
	assert.Equal(t, "person_id", pivot.FirstKey)
	assert.Equal(t, "related_person_id", pivot.SecondKey)

	g := generator.NewModelGenerator(env.deps)
	_, err = g.Generate(context.Background(), person)
	require.NoError(t, err)

	model := env.read(t, "app/Models/Person.php")
	assert.Contains(t, model, "public function friends()")
	assert.Contains(t, model, "belongsToMany(Person::class, 'person_person', 'person_id', 'related_person_id')")
	assert.NotContains(t, model, `use App\Models\Person;`)
}

func TestPivotFor_TableMatchesNaming(t *testing.T) {
	tests := []struct {
		entity  string
		related string
		want    string
	}{
		{"Post", "Tag", "post_tag"},
		{"Tag", "Post", "post_tag"},
		{"OrderItem", "Coupon", "coupon_order_item"},
		{"Coupon", "OrderItem", "coupon_order_item"},
	}

	for _, tt := range tests {
		t.Run(tt.entity+"_"+tt.related, func(t *testing.T) {
			pivot := generator.PivotFor(tt.entity, mustRel(t, models.ManyToMany, tt.related, "items"))
			assert.Equal(t, tt.want, pivot.Table)
			assert.Equal(t, naming.PivotTableName(tt.entity, tt.related), pivot.Table)
		})
	}
}

func TestPivotMigration_NotSupportedWithoutManyToMany(t *testing.T) {
	env := newTestEnv(t)
	post, err := scaffold.BuildEntity("Post", "title:string")
	require.NoError(t, err)

	assert.False(t, generator.NewPivotMigrationGenerator(env.deps).Supports(post))
}

func TestMigration_MissingAnchorsSkips(t *testing.T) {
	env := newTestEnv(t)
	post, err := scaffold.BuildEntity("Post", "title:string")
	require.NoError(t, err)

	p := "database/migrations/2020_01_01_000000_create_posts_table.php"
	custom := "<?php\n// hand-written migration\n"
	require.NoError(t, env.deps.Files.WriteFile(context.Background(), p, custom))

	result, err := generator.NewMigrationGenerator(env.deps).Generate(context.Background(), post)
	require.NoError(t, err)
	require.Len(t, result.Artifacts, 1)
	assert.Equal(t, p, result.Artifacts[0].Path)
	assert.Equal(t, models.OperationSkipped, result.Artifacts[0].Operation)
	assert.Equal(t, custom, env.read(t, p))
}

func TestMigration_ReusesExistingFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := generator.NewMigrationGenerator(env.deps)

	v1, err := scaffold.BuildEntity("Post", "title:string")
	require.NoError(t, err)
	first, err := g.Generate(ctx, v1)
	require.NoError(t, err)

	v2, err := scaffold.BuildEntity("Post", "title:string,body:text")
	require.NoError(t, err)
	second, err := g.Generate(ctx, v2)
	require.NoError(t, err)

	assert.Equal(t, first.Artifacts[0].Path, second.Artifacts[0].Path)
	assert.Equal(t, models.OperationUpdated, second.Artifacts[0].Operation)

	content := env.read(t, second.Artifacts[0].Path)
	assert.Contains(t, content, "$table->text('body')->nullable();")
	assert.Equal(t, 1, strings.Count(content, "$table->string('title')"))
}

func TestMigration_ResolvePath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	post, err := scaffold.BuildEntity("Post", "title:string")
	require.NoError(t, err)

	g := generator.NewMigrationGenerator(env.deps)
	resolver, ok := g.(generator.PathResolver)
	require.True(t, ok)

	p, err := resolver.ResolvePath(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, "database/migrations/2024_01_02_030405_create_posts_table.php", p)

	existing := "database/migrations/2019_12_31_235959_create_posts_table.php"
	require.NoError(t, env.deps.Files.WriteFile(ctx, existing, "<?php\n"))

	p, err = resolver.ResolvePath(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, existing, p)
}

func TestMigrationColumns(t *testing.T) {
	nullable, err := models.NewFieldDefinition("status", "string", models.WithNullable(false), models.WithDefault("'draft'"))
	require.NoError(t, err)
	entity, err := models.NewEntityDefinition("Article",
		[]models.FieldDefinition{nullable, mustField(t, "score", "float"), mustField(t, "id_ref", "uuid")}, nil)
	require.NoError(t, err)

	got := generator.MigrationColumns(entity)
	want := "\n" +
		"            $table->string('status')->default('draft');\n" +
		"            $table->decimal('score', 8, 2)->nullable();\n" +
		"            $table->uuid('id_ref')->nullable();\n" +
		"            "
	assert.Equal(t, want, got)
}

func TestController_PreservesExistingImports(t *testing.T) {
	env := newTestEnv(t)
	post, err := scaffold.BuildEntity("Post", "title:string")
	require.NoError(t, err)

	p := "app/Http/Controllers/PostController.php"
	existing := "<?php\n\nnamespace App\\Http\\Controllers;\n\nuse App\\Support\\Audit;\n\nclass PostController extends BaseController\n{\n    public function legacy() { return '}'; }\n}\n"
	require.NoError(t, env.deps.Files.WriteFile(context.Background(), p, existing))

	result, err := generator.NewControllerGenerator(env.deps).Generate(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, models.OperationUpdated, result.Artifacts[0].Operation)

	content := env.read(t, p)
	assert.Contains(t, content, `use App\Support\Audit;`)
	assert.Contains(t, content, "class PostController extends BaseController")
	assert.NotContains(t, content, "legacy")
	assert.Contains(t, content, "public function destroy(Post $post)")
}

func TestGenerate_ErrorsAreTyped(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Stubs = templates.NewLoader(os.DirFS(t.TempDir()))
	post, err := scaffold.BuildEntity("Post", "title:string")
	require.NoError(t, err)

	_, err = generator.NewServiceGenerator(env.deps).Generate(context.Background(), post)
	require.Error(t, err)

	var genErr *apperrors.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "service", genErr.Type)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestBuild(t *testing.T) {
	deps := newTestEnv(t).deps

	tests := []struct {
		name     string
		order    []string
		disabled []string
		want     []string
		wantErr  bool
	}{
		{name: "default order", want: generator.DefaultOrder},
		{name: "custom order", order: []string{"migration", "model"}, want: []string{"migration", "model"}},
		{name: "disabled", disabled: []string{"seeder", "factory", "policy"},
			want: []string{"model", "migration", "pivot_migration", "service", "resource", "request", "dto", "controller"}},
		{name: "unknown", order: []string{"model", "graphql"}, wantErr: true},
		{name: "duplicate", order: []string{"model", "model"}, wantErr: true},
		{name: "unknown disabled", disabled: []string{"view"}, wantErr: true},
		{name: "all disabled", order: []string{"model"}, disabled: []string{"model"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generators, err := generator.Build(tt.order, tt.disabled, deps)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)
				return
			}
			require.NoError(t, err)

			var kinds []string
			for _, g := range generators {
				kinds = append(kinds, g.Type())
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}
