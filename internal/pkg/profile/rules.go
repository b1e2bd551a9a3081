package profile

// knownConfigFiles 配置存在性探测的固定清单（相对工作区根目录，使用正斜杠）
var knownConfigFiles = []string{
	"package.json",
	"tsconfig.json",
	"jsconfig.json",
	"next.config.js",
	"next.config.mjs",
	"next.config.ts",
	"nuxt.config.ts",
	"vite.config.ts",
	"vite.config.js",
	"svelte.config.js",
	"astro.config.mjs",
	"tailwind.config.js",
	"tailwind.config.ts",
	".eslintrc.json",
	"eslint.config.js",
	".prettierrc",
	"jest.config.js",
	"vitest.config.ts",
	"playwright.config.ts",
	"sentry.client.config.ts",
	"sentry.server.config.ts",
	"prisma/schema.prisma",
	"drizzle.config.ts",
	"supabase",
	"vercel.json",
	"netlify.toml",
	"Dockerfile",
	"docker-compose.yml",
	".github/workflows",
	"pyproject.toml",
	"requirements.txt",
	"setup.py",
	"Pipfile",
	"go.mod",
	"Cargo.toml",
	"Gemfile",
	"composer.json",
	"pom.xml",
	"build.gradle",
	"Package.swift",
}

// lockfileRule 锁文件与包管理器的对应关系
type lockfileRule struct {
	Lockfile string
	Manager  string
}

// lockfilePriority 包管理器探测顺序，首个命中即返回
var lockfilePriority = []lockfileRule{
	{Lockfile: "bun.lockb", Manager: "bun"},
	{Lockfile: "pnpm-lock.yaml", Manager: "pnpm"},
	{Lockfile: "yarn.lock", Manager: "yarn"},
	{Lockfile: "package-lock.json", Manager: "npm"},
	{Lockfile: "uv.lock", Manager: "uv"},
	{Lockfile: "poetry.lock", Manager: "poetry"},
	{Lockfile: "Pipfile.lock", Manager: "pipenv"},
	{Lockfile: "Cargo.lock", Manager: "cargo"},
	{Lockfile: "go.sum", Manager: "go"},
	{Lockfile: "Gemfile.lock", Manager: "bundler"},
	{Lockfile: "composer.lock", Manager: "composer"},
}

// languageRule 语言推断规则：任一配置文件存在或任一扩展名出现即命中
type languageRule struct {
	Language    string
	ConfigFiles []string
	Extensions  []string
}

// languageRules 语言推断规则，按顺序评估，多个语言可以同时命中
var languageRules = []languageRule{
	{Language: "TypeScript", ConfigFiles: []string{"tsconfig.json"}, Extensions: []string{".ts", ".tsx"}},
	{Language: "JavaScript", Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
	{Language: "Python", ConfigFiles: []string{"pyproject.toml", "requirements.txt", "setup.py", "Pipfile"}, Extensions: []string{".py"}},
	{Language: "Go", ConfigFiles: []string{"go.mod"}, Extensions: []string{".go"}},
	{Language: "Rust", ConfigFiles: []string{"Cargo.toml"}, Extensions: []string{".rs"}},
	{Language: "Ruby", ConfigFiles: []string{"Gemfile"}, Extensions: []string{".rb"}},
	{Language: "PHP", ConfigFiles: []string{"composer.json"}, Extensions: []string{".php"}},
	{Language: "Java", ConfigFiles: []string{"pom.xml", "build.gradle"}, Extensions: []string{".java"}},
	{Language: "Kotlin", Extensions: []string{".kt", ".kts"}},
	{Language: "Swift", ConfigFiles: []string{"Package.swift"}, Extensions: []string{".swift"}},
	{Language: "C#", Extensions: []string{".cs"}},
}

// frameworkRule 依赖名到框架名的映射
type frameworkRule struct {
	Dependency string
	Framework  string
}

// frameworkPriority 框架推断顺序
// 元框架必须排在其封装的基础库之前（next 先于 react，nuxt 先于 vue）
var frameworkPriority = []frameworkRule{
	{Dependency: "next", Framework: "Next.js"},
	{Dependency: "nuxt", Framework: "Nuxt"},
	{Dependency: "@remix-run/react", Framework: "Remix"},
	{Dependency: "@sveltejs/kit", Framework: "SvelteKit"},
	{Dependency: "astro", Framework: "Astro"},
	{Dependency: "gatsby", Framework: "Gatsby"},
	{Dependency: "@angular/core", Framework: "Angular"},
	{Dependency: "@nestjs/core", Framework: "NestJS"},
	{Dependency: "react", Framework: "React"},
	{Dependency: "vue", Framework: "Vue"},
	{Dependency: "svelte", Framework: "Svelte"},
	{Dependency: "express", Framework: "Express"},
	{Dependency: "fastify", Framework: "Fastify"},
	{Dependency: "hono", Framework: "Hono"},
	{Dependency: "django", Framework: "Django"},
	{Dependency: "fastapi", Framework: "FastAPI"},
	{Dependency: "flask", Framework: "Flask"},
	{Dependency: "github.com/gin-gonic/gin", Framework: "Gin"},
	{Dependency: "github.com/labstack/echo/v4", Framework: "Echo"},
	{Dependency: "github.com/gofiber/fiber/v2", Framework: "Fiber"},
	{Dependency: "actix-web", Framework: "Actix"},
	{Dependency: "axum", Framework: "Axum"},
	{Dependency: "rails", Framework: "Rails"},
	{Dependency: "laravel/framework", Framework: "Laravel"},
}

// skippedDirs 扩展名普查时跳过的大体积目录
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"target":       true,
	"coverage":     true,
	"__pycache__":  true,
	"venv":         true,
	"bin":          true,
	"obj":          true,
}

// inferLanguages 根据配置文件和扩展名推断语言
func inferLanguages(configs, exts map[string]struct{}) []string {
	languages := make([]string, 0)
	for _, rule := range languageRules {
		if anyIn(rule.ConfigFiles, configs) || anyIn(rule.Extensions, exts) {
			languages = append(languages, rule.Language)
		}
	}
	if len(languages) == 0 {
		return []string{UnknownLanguage}
	}
	return languages
}

// inferFramework 按优先级返回首个命中的框架，未命中返回空字符串
func inferFramework(deps map[string]struct{}) string {
	for _, rule := range frameworkPriority {
		if _, ok := deps[rule.Dependency]; ok {
			return rule.Framework
		}
	}
	return ""
}

func anyIn(candidates []string, set map[string]struct{}) bool {
	for _, c := range candidates {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}
