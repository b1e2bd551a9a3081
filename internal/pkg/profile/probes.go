package profile

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"golang.org/x/mod/modfile"
	"k8s.io/klog/v2"
)

// 所有探测函数都不返回错误：读不到或解析失败的文件视为不存在

// probeManifests 读取包清单，合并生产依赖与开发依赖
func probeManifests(root string) map[string]struct{} {
	deps := make(map[string]struct{})

	if data, ok := readFile(root, "package.json"); ok {
		readPackageJSON(data, deps)
	}
	if data, ok := readFile(root, "go.mod"); ok {
		readGoMod(data, deps)
	}
	if data, ok := readFile(root, "Cargo.toml"); ok {
		readCargoToml(data, deps)
	}
	if data, ok := readFile(root, "pyproject.toml"); ok {
		readPyProject(data, deps)
	}
	if data, ok := readFile(root, "requirements.txt"); ok {
		readRequirements(data, deps)
	}

	return deps
}

func readPackageJSON(data []byte, deps map[string]struct{}) {
	if !gjson.ValidBytes(data) {
		klog.V(6).Infof("[profile] package.json 解析失败，忽略")
		return
	}
	for _, section := range []string{"dependencies", "devDependencies"} {
		gjson.GetBytes(data, section).ForEach(func(key, _ gjson.Result) bool {
			if name := key.String(); name != "" {
				deps[name] = struct{}{}
			}
			return true
		})
	}
}

func readGoMod(data []byte, deps map[string]struct{}) {
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		klog.V(6).Infof("[profile] go.mod 解析失败，忽略: %v", err)
		return
	}
	for _, r := range f.Require {
		deps[r.Mod.Path] = struct{}{}
	}
}

func readCargoToml(data []byte, deps map[string]struct{}) {
	var manifest struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		klog.V(6).Infof("[profile] Cargo.toml 解析失败，忽略: %v", err)
		return
	}
	for name := range manifest.Dependencies {
		deps[name] = struct{}{}
	}
	for name := range manifest.DevDependencies {
		deps[name] = struct{}{}
	}
}

func readPyProject(data []byte, deps map[string]struct{}) {
	var manifest struct {
		Project struct {
			Dependencies         []string            `toml:"dependencies"`
			OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		klog.V(6).Infof("[profile] pyproject.toml 解析失败，忽略: %v", err)
		return
	}
	for _, spec := range manifest.Project.Dependencies {
		addPythonRequirement(spec, deps)
	}
	for _, group := range manifest.Project.OptionalDependencies {
		for _, spec := range group {
			addPythonRequirement(spec, deps)
		}
	}
	for name := range manifest.Tool.Poetry.Dependencies {
		if name != "python" {
			deps[strings.ToLower(name)] = struct{}{}
		}
	}
	for name := range manifest.Tool.Poetry.DevDependencies {
		deps[strings.ToLower(name)] = struct{}{}
	}
}

func readRequirements(data []byte, deps map[string]struct{}) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		addPythonRequirement(line, deps)
	}
}

// addPythonRequirement 从 PEP 508 需求串中截取包名，如 "Django>=4.2" -> "django"
func addPythonRequirement(spec string, deps map[string]struct{}) {
	end := strings.IndexAny(spec, "<>=!~;[ @")
	if end >= 0 {
		spec = spec[:end]
	}
	name := strings.ToLower(strings.TrimSpace(spec))
	if name != "" {
		deps[name] = struct{}{}
	}
}

// probeConfigFiles 检测固定清单中的配置文件/目录是否存在
func probeConfigFiles(root string) map[string]struct{} {
	found := make(map[string]struct{})
	for _, name := range knownConfigFiles {
		if exists(filepath.Join(root, filepath.FromSlash(name))) {
			found[name] = struct{}{}
		}
	}
	return found
}

// probeExtensions 浅层扫描根目录及其下一层子目录，收集扩展名
// 跳过隐藏目录和依赖/产物目录，每个目录最多读取 limit 个条目
func probeExtensions(root string, limit int) map[string]struct{} {
	exts := make(map[string]struct{})

	entries := readDirLimited(root, limit)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() {
			addExtension(name, exts)
			continue
		}
		if skippedDirs[name] {
			continue
		}
		for _, child := range readDirLimited(filepath.Join(root, name), limit) {
			if child.IsDir() || strings.HasPrefix(child.Name(), ".") {
				continue
			}
			addExtension(child.Name(), exts)
		}
	}

	return exts
}

func addExtension(name string, exts map[string]struct{}) {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		exts[ext] = struct{}{}
	}
}

// probePackageManager 按固定优先级检测锁文件，首个命中即返回
func probePackageManager(root string) string {
	for _, rule := range lockfilePriority {
		if exists(filepath.Join(root, rule.Lockfile)) {
			return rule.Manager
		}
	}
	return ""
}

func readFile(root, name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		return nil, false
	}
	return data, true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readDirLimited 读取目录的前 limit 个条目，出错时返回空
func readDirLimited(dir string, limit int) []os.DirEntry {
	f, err := os.Open(dir)
	if err != nil {
		return nil
	}
	defer f.Close()

	n := limit
	if n <= 0 {
		n = -1
	}
	entries, err := f.ReadDir(n)
	if err != nil && len(entries) == 0 {
		return nil
	}
	return entries
}
