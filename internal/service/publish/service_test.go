package publish

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/promptvault/backend/internal/model"
)

type fakeFile struct {
	content string
	sha     string
}

type fakeRemoteStore struct {
	files     map[string]fakeFile
	putErr    error
	deleteErr error
	getErr    error
	puts      []string
	shaSeq    int
}

func newFakeRemoteStore() *fakeRemoteStore {
	return &fakeRemoteStore{files: make(map[string]fakeFile)}
}

// GetFile 读取文件内容与 sha
func (f *fakeRemoteStore) GetFile(ctx context.Context, path string) (string, string, error) {
	if f.getErr != nil {
		return "", "", f.getErr
	}
	file, ok := f.files[path]
	if !ok {
		return "", "", ErrRemoteNotFound
	}
	return file.content, file.sha, nil
}

// PutFile 写入文件并生成新 sha
func (f *fakeRemoteStore) PutFile(ctx context.Context, path, content, message, sha string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if existing, ok := f.files[path]; ok && existing.sha != sha {
		return errors.New("sha mismatch")
	}
	f.shaSeq++
	f.files[path] = fakeFile{content: content, sha: "sha-" + strings.Repeat("x", f.shaSeq)}
	f.puts = append(f.puts, path)
	return nil
}

// DeleteFile 删除文件
func (f *fakeRemoteStore) DeleteFile(ctx context.Context, path, message, sha string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	existing, ok := f.files[path]
	if !ok {
		return errors.New("file not found")
	}
	if existing.sha != sha {
		return errors.New("sha mismatch")
	}
	delete(f.files, path)
	return nil
}

func strPtr(s string) *string { return &s }

func testPrompt(name, category string) *model.Prompt {
	return &model.Prompt{
		ID:          "p-" + strings.ToLower(name),
		Name:        name,
		Description: "A test prompt",
		Category:    category,
		Content:     "Hello world",
		CreatedAt:   time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestPromptSlug(t *testing.T) {
	cases := map[string]string{
		"Greeting":            "greeting",
		"My Cool Prompt":      "my-cool-prompt",
		"  Weird -- name!!  ": "weird-name",
		"UPPER_case_123":      "upper-case-123",
		"---":                 "",
	}
	for input, expected := range cases {
		if got := PromptSlug(input); got != expected {
			t.Fatalf("PromptSlug(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestPublishWritesFileAtSlugPath(t *testing.T) {
	store := newFakeRemoteStore()
	svc := New(store)

	prompt := testPrompt("My Greeting", "chat")
	path, err := svc.Publish(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if path != "prompts/my-greeting/prompt.md" {
		t.Fatalf("unexpected path: %s", path)
	}

	file, ok := store.files[path]
	if !ok {
		t.Fatalf("expected remote file at %s", path)
	}
	if !strings.HasPrefix(file.content, "---\n") {
		t.Fatalf("expected front matter, got: %s", file.content)
	}
	if !strings.Contains(file.content, "name: My Greeting") {
		t.Fatalf("front matter missing name: %s", file.content)
	}
	if !strings.Contains(file.content, "model: null") {
		t.Fatalf("expected null model in front matter: %s", file.content)
	}
	if !strings.HasSuffix(file.content, "Hello world\n") {
		t.Fatalf("expected raw content after front matter: %s", file.content)
	}
}

func TestPublishRemoteFailure(t *testing.T) {
	store := newFakeRemoteStore()
	store.putErr = errors.New("remote unavailable")
	svc := New(store)

	if _, err := svc.Publish(context.Background(), testPrompt("X", "chat")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUpdatePublishedRequiresPublishedState(t *testing.T) {
	svc := New(newFakeRemoteStore())

	prompt := testPrompt("X", "chat")
	if err := svc.UpdatePublished(context.Background(), prompt, "prompts/x/prompt.md"); !errors.Is(err, ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}

	prompt.IsPublished = true
	if err := svc.UpdatePublished(context.Background(), prompt, ""); !errors.Is(err, ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished for empty path, got %v", err)
	}
}

func TestUpdatePublishedOverwritesSamePath(t *testing.T) {
	store := newFakeRemoteStore()
	svc := New(store)

	prompt := testPrompt("Greeting", "chat")
	path, err := svc.Publish(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	// 改名后仍写回原路径，不按新名称重新推导
	prompt.IsPublished = true
	prompt.Name = "Renamed Greeting"
	prompt.Content = "Hello there"
	if err := svc.UpdatePublished(context.Background(), prompt, path); err != nil {
		t.Fatalf("UpdatePublished error: %v", err)
	}

	if len(store.files) != 1 {
		t.Fatalf("expected single remote file, got %d", len(store.files))
	}
	file := store.files[path]
	if !strings.Contains(file.content, "Hello there") {
		t.Fatalf("expected refreshed content: %s", file.content)
	}
}

func TestUpdatePublishedRemoteMissing(t *testing.T) {
	svc := New(newFakeRemoteStore())

	prompt := testPrompt("Greeting", "chat")
	prompt.IsPublished = true
	err := svc.UpdatePublished(context.Background(), prompt, "prompts/greeting/prompt.md")
	if !errors.Is(err, ErrRemoteNotFound) {
		t.Fatalf("expected ErrRemoteNotFound, got %v", err)
	}
}

func TestUnpublishDeletesFile(t *testing.T) {
	store := newFakeRemoteStore()
	svc := New(store)

	prompt := testPrompt("Greeting", "chat")
	path, err := svc.Publish(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if err := svc.Unpublish(context.Background(), path); err != nil {
		t.Fatalf("Unpublish error: %v", err)
	}
	if _, ok := store.files[path]; ok {
		t.Fatalf("expected file to be deleted")
	}
}

func TestUnpublishRemoteMissing(t *testing.T) {
	svc := New(newFakeRemoteStore())
	if err := svc.Unpublish(context.Background(), "prompts/gone/prompt.md"); !errors.Is(err, ErrRemoteNotFound) {
		t.Fatalf("expected ErrRemoteNotFound, got %v", err)
	}
}

func TestRegenerateIndexOrdering(t *testing.T) {
	store := newFakeRemoteStore()
	svc := New(store)

	beta := testPrompt("Beta", "x")
	alpha := testPrompt("Alpha", "x")
	gamma := testPrompt("Gamma", "y")
	for _, p := range []*model.Prompt{beta, alpha, gamma} {
		p.IsPublished = true
	}

	if err := svc.RegenerateIndex(context.Background(), []model.Prompt{*beta, *alpha, *gamma}); err != nil {
		t.Fatalf("RegenerateIndex error: %v", err)
	}

	content := store.files["README.md"].content
	xIdx := strings.Index(content, "### x")
	yIdx := strings.Index(content, "### y")
	if xIdx == -1 || yIdx == -1 || xIdx > yIdx {
		t.Fatalf("expected category x before y:\n%s", content)
	}
	alphaIdx := strings.Index(content, "[Alpha]")
	betaIdx := strings.Index(content, "[Beta]")
	if alphaIdx == -1 || betaIdx == -1 || alphaIdx > betaIdx {
		t.Fatalf("expected Alpha before Beta:\n%s", content)
	}
	if !strings.Contains(content, "Total prompts: 3") {
		t.Fatalf("expected total count:\n%s", content)
	}
	if !strings.Contains(content, "- **Model**: Not specified") {
		t.Fatalf("expected model fallback:\n%s", content)
	}
}

func TestRegenerateIndexKeepsExistingSHA(t *testing.T) {
	store := newFakeRemoteStore()
	store.files["README.md"] = fakeFile{content: "old", sha: "sha-old"}
	// fake 在 sha 不匹配时拒绝写入，沿用旧 sha 才能通过
	store.shaSeq = 0
	svc := New(store)

	if err := svc.RegenerateIndex(context.Background(), nil); err != nil {
		t.Fatalf("RegenerateIndex error: %v", err)
	}
	content := store.files["README.md"].content
	if !strings.Contains(content, "*No prompts published yet.*") {
		t.Fatalf("expected empty-state index:\n%s", content)
	}
}

func TestRegenerateIndexSkipsUnpublished(t *testing.T) {
	store := newFakeRemoteStore()
	svc := New(store)

	published := testPrompt("Visible", "x")
	published.IsPublished = true
	draft := testPrompt("Draft", "x")

	if err := svc.RegenerateIndex(context.Background(), []model.Prompt{*published, *draft}); err != nil {
		t.Fatalf("RegenerateIndex error: %v", err)
	}
	content := store.files["README.md"].content
	if strings.Contains(content, "Draft") {
		t.Fatalf("draft prompt leaked into index:\n%s", content)
	}
	if !strings.Contains(content, "Total prompts: 1") {
		t.Fatalf("unexpected total:\n%s", content)
	}
}

func TestRegenerateIndexUsesStoredPath(t *testing.T) {
	store := newFakeRemoteStore()
	svc := New(store)

	prompt := testPrompt("Greeting", "x")
	prompt.IsPublished = true
	prompt.GithubPath = strPtr("prompts/greeting/prompt.md")
	prompt.Name = "Renamed Greeting"

	if err := svc.RegenerateIndex(context.Background(), []model.Prompt{*prompt}); err != nil {
		t.Fatalf("RegenerateIndex error: %v", err)
	}
	content := store.files["README.md"].content
	if !strings.Contains(content, "[Renamed Greeting](./prompts/greeting/prompt.md)") {
		t.Fatalf("expected link to stored path:\n%s", content)
	}
}
