package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

type sample struct {
	Name    string        `mapstructure:"name"`
	Every   time.Duration `mapstructure:"every"`
	Tags    []string      `mapstructure:"tags"`
	Amounts map[string]int64
}

func TestReadBytes_时长与切片(t *testing.T) {
	raw := []byte("name: p\nevery: 90s\ntags: a,b\namounts:\n  wood: 3\n")
	var s sample
	if err := ReadBytes(raw, "yaml", &s); err != nil {
		t.Fatal(err)
	}
	if s.Every != 90*time.Second || len(s.Tags) != 2 || s.Amounts["wood"] != 3 {
		t.Fatalf("解析结果错误: %+v", s)
	}
}

func TestRead_文件不存在(t *testing.T) {
	var s sample
	if err := Read(filepath.Join(t.TempDir(), "nope.yml"), &s); err == nil {
		t.Fatalf("文件不存在应报错")
	}
}

func TestResolve_向上查找(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "configs", "conf.yml")
	if err := os.WriteFile(want, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(deep)

	if got := Resolve(""); got != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
	var s sample
	Load("", &s)
	if s.Name != "x" {
		t.Fatalf("Load 结果错误: %+v", s)
	}
}

func TestOnChange_回调(t *testing.T) {
	got := ""
	OnChange(func(v *viper.Viper) { got = v.GetString("name") })
	OnChange(nil)
	v := viper.New()
	v.Set("name", "reloaded")
	notify(v)
	if got != "reloaded" {
		t.Fatalf("回调未触发: %q", got)
	}
}
