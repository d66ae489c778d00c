package rules

// Default returns the built-in rule set used when no rules file is configured.
// Order matters: noise rules come first so a generated test fixture or a
// vendored README is still treated as noise.
func Default() Config {
	return Config{
		Version: CurrentVersion,
		Rules: []Rule{
			{
				ID:    "lockfiles",
				Label: "Lock files",
				Match: Match{PathGlobs: []string{
					"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "npm-shrinkwrap.json",
					"go.sum", "go.work.sum", "Cargo.lock", "poetry.lock", "Gemfile.lock",
					"composer.lock", "*.lock",
				}},
				Behavior: Behavior{Role: RoleNoise, Omit: true},
			},
			{
				ID:    "vendored",
				Label: "Vendored dependencies",
				Match: Match{PathGlobs: []string{
					"vendor/**", "**/vendor/**", "node_modules/**", "**/node_modules/**",
				}},
				Behavior: Behavior{Role: RoleNoise, Omit: true},
			},
			{
				ID:    "generated-files",
				Label: "Generated",
				Match: Match{PathGlobs: []string{
					"*.pb.go", "*.pb.gw.go", "*.pb.json.go", "*.pb.grpc.go",
					"*.generated.*", "*.snap", "*.swagger.json", "*.min.js", "*.min.css",
					"zz_generated.*", "**/config/rendered/**",
				}},
				Behavior: Behavior{Role: RoleNoise, Omit: true},
			},
			{
				ID:       "generated-marker",
				Label:    "Generated",
				Match:    Match{ContentPattern: `Code generated .* DO NOT EDIT|@generated`},
				Behavior: Behavior{Role: RoleNoise, Omit: true},
			},
			{
				ID:    "tests",
				Label: "Tests",
				Match: Match{PathGlobs: []string{
					"*_test.go", "*.test.ts", "*.test.js", "*.spec.ts", "*.spec.js", "test_*.py",
					"**/testdata/**", "**/__tests__/**",
				}},
				Behavior: Behavior{Role: RoleRelated},
			},
			{
				ID:    "docs",
				Label: "Documentation",
				Match: Match{PathGlobs: []string{
					"**/*.md", "**/*.mdx", "**/*.rst", "docs/**", "LICENSE*",
				}},
				Behavior: Behavior{Role: RoleRelated, Omit: true},
			},
			{
				ID:    "build",
				Label: "Build & CI",
				Match: Match{PathGlobs: []string{
					".github/**", ".gitlab-ci.yml", "Makefile", "*.mk", "Dockerfile", "Containerfile",
					"go.mod", "go.work", "package.json", "tsconfig.json", ".golangci.yml",
				}},
				Behavior: Behavior{Role: RoleRelated, Omit: true},
			},
		},
	}
}
