package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/apigen/internal/apperrors"
)

const migrationBody = `        Schema::create('posts', function (Blueprint $table) {
            $table->id();
            $table->timestamps();
        });
`

var columnsAnchor = Anchor{Start: "$table->id();", End: "$table->timestamps();"}

func TestMergeArtifact(t *testing.T) {
	segment := "\n            $table->string('title')->nullable();\n            "

	merged, err := MergeArtifact(migrationBody, segment, columnsAnchor)
	require.NoError(t, err)
	assert.Contains(t, merged, "$table->id();\n            $table->string('title')->nullable();\n            $table->timestamps();")

	again, err := MergeArtifact(merged, segment, columnsAnchor)
	require.NoError(t, err)
	assert.Equal(t, merged, again)
	assert.Equal(t, 1, strings.Count(again, "string('title')"))
}

func TestMergeArtifact_ReplacesPreviousRegion(t *testing.T) {
	first, err := MergeArtifact(migrationBody, "\n            $table->string('old');\n            ", columnsAnchor)
	require.NoError(t, err)

	second, err := MergeArtifact(first, "\n            $table->text('new');\n            ", columnsAnchor)
	require.NoError(t, err)

	assert.NotContains(t, second, "old")
	assert.Contains(t, second, "text('new')")
}

func TestMergeArtifact_MissingAnchor(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no start", "$table->timestamps();"},
		{"no end", "$table->id();"},
		{"end before start", "$table->timestamps();\n$table->id();"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeArtifact(tt.content, "x", columnsAnchor)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrAnchorNotFound))
			assert.Equal(t, tt.content, got)
		})
	}
}

func TestEnsureLineAndRemoveLine(t *testing.T) {
	line := "Route::apiResource('posts', App\\Http\\Controllers\\PostController::class);"
	content := "<?php\n\nuse Illuminate\\Support\\Facades\\Route;\n\n"

	once, changed := EnsureLine(content, line)
	assert.True(t, changed)
	twice, changed := EnsureLine(once, line)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, line))

	removed, changed := RemoveLine(twice, line)
	assert.True(t, changed)
	assert.False(t, ContainsLine(removed, line))

	_, changed = RemoveLine(removed, line)
	assert.False(t, changed)
}

func TestEnsureLine_AddsMissingNewline(t *testing.T) {
	got, changed := EnsureLine("<?php", "foo();")
	assert.True(t, changed)
	assert.Equal(t, "<?php\nfoo();\n", got)
}

func TestEnsureImports(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "after last import",
			content: "<?php\n\nnamespace App;\n\nuse A\\B;\n\nclass X\n{\n}\n",
			want:    "<?php\n\nnamespace App;\n\nuse A\\B;\nuse C\\D;\n\nclass X\n{\n}\n",
		},
		{
			name:    "after namespace",
			content: "<?php\n\nnamespace App;\n\nclass X\n{\n}\n",
			want:    "<?php\n\nnamespace App;\n\nuse C\\D;\n\nclass X\n{\n}\n",
		},
		{
			name:    "already present",
			content: "<?php\n\nnamespace App;\n\nuse C\\D;\n\nclass X\n{\n}\n",
			want:    "<?php\n\nnamespace App;\n\nuse C\\D;\n\nclass X\n{\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureImports(tt.content, "C\\D")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, EnsureImports(got, "C\\D"))
		})
	}
}

func TestEnsureExtends(t *testing.T) {
	content := "class PostController\n{\n}\n"

	got, err := EnsureExtends(content, "PostController", "Controller")
	require.NoError(t, err)
	assert.Equal(t, "class PostController extends Controller\n{\n}\n", got)

	again, err := EnsureExtends(got, "PostController", "Controller")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = EnsureExtends(content, "TagController", "Controller")
	assert.True(t, errors.Is(err, apperrors.ErrAnchorNotFound))
}

func TestEnsureExtends_DoesNotMatchPrefix(t *testing.T) {
	content := "class PostControllerTest\n{\n}\n"
	_, err := EnsureExtends(content, "PostController", "Controller")
	assert.True(t, errors.Is(err, apperrors.ErrAnchorNotFound))
}

func TestReplaceClassBody(t *testing.T) {
	content := `<?php

class PostController extends Controller
{
    public function index()
    {
        $s = "{ not a brace";
        // } nor this
        /* { or this } */
        return '}';
    }
}
`
	got, err := ReplaceClassBody(content, "PostController", "\n    public function show() {}\n")
	require.NoError(t, err)
	assert.Equal(t, "<?php\n\nclass PostController extends Controller\n{\n    public function show() {}\n}\n", got)

	again, err := ReplaceClassBody(got, "PostController", "\n    public function show() {}\n")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestReplaceClassBody_Unbalanced(t *testing.T) {
	_, err := ReplaceClassBody("class X\n{\n    function a() {\n", "X", "")
	assert.True(t, errors.Is(err, apperrors.ErrAnchorNotFound))
}

func TestAllowAll(t *testing.T) {
	content := "return false;\nreturn Response::deny();\nreturn   false;\nreturn falsey;\n"
	got := AllowAll(content)
	assert.Equal(t, "return true;\nreturn true;\nreturn   true;\nreturn falsey;\n", got)
	assert.Equal(t, got, AllowAll(got))
}

func TestInsertAfterAndEnsureBefore(t *testing.T) {
	got, err := InsertAfter("protected $policies = [\n];", "protected $policies = [", "\n        A::class => B::class,")
	require.NoError(t, err)
	assert.Equal(t, "protected $policies = [\n        A::class => B::class,\n];", got)

	_, err = InsertAfter("nothing", "missing", "x")
	assert.True(t, errors.Is(err, apperrors.ErrAnchorNotFound))

	block := "/** note */\n"
	once, err := EnsureBefore("class P\n{\n}", "class P", block)
	require.NoError(t, err)
	twice, err := EnsureBefore(once, "class P", block)
	require.NoError(t, err)
	assert.Equal(t, "/** note */\nclass P\n{\n}", twice)
}
