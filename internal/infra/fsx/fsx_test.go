package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic_CreatesDirAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "movies.json")

	if err := WriteFileAtomic(path, []byte("[]")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFileAtomic(path, []byte(`[{"title_ch":"鬼靈精"}]`)); err != nil {
		t.Fatalf("覆盖写入不期望错误：%v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != `[{"title_ch":"鬼靈精"}]` {
		t.Fatalf("内容不一致：%q", string(b))
	}
	assertNoTemp(t, filepath.Dir(path))
}

func TestWriteFileAtomic_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error { return errors.New("boom") }
	defer func() { renameFunc = old }()

	if err := WriteFileAtomic(filepath.Join(dir, "a.txt"), []byte("x")); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); !os.IsNotExist(err) {
		t.Fatalf("rename 失败时不应产生目标文件，Stat err=%v", err)
	}
	assertNoTemp(t, dir)
}

func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}
