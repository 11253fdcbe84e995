package scaffold

import "fmt"

const defaultDescription = "A project created with ClaudeUp"

// Readme renders README.md.
func Readme(name, description string) string {
	if description == "" {
		description = defaultDescription
	}
	return fmt.Sprintf(`# %s

%s

## Getting Started

[Add your getting started instructions here]
`, name, description)
}

// Gitignore renders .gitignore.
func Gitignore() string {
	return `# Go
/bin/
*.exe
*.test
*.out
vendor/

# Python
__pycache__/
*.py[cod]
*$py.class
*.so
.Python
env/
venv/
ENV/
build/
dist/
*.egg-info/

# IDEs
.vscode/
.idea/
*.swp
*.swo
*~

# OS
.DS_Store
Thumbs.db

# Environment variables
.env
.env.local
`
}

// Task renders the task file holding the operator's instructions verbatim.
func Task(instructions string) string {
	return fmt.Sprintf(`# Initial Task

%s

---
*This file was automatically created by ClaudeUp. You can delete it after completing the task.*
`, instructions)
}
