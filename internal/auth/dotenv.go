package auth

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// dotEnvDirs lists the directories searched for a .env file, in order:
// the working directory, its parent, and the directory of the executable.
func dotEnvDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd, filepath.Dir(cwd))
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// lookupDotEnv searches the .env chain for a variable and returns its value
// and the file it came from.
func lookupDotEnv(name string) (value, source string) {
	for _, dir := range dotEnvDirs() {
		path := filepath.Join(dir, ".env")
		vars, err := parseDotEnv(path)
		if err != nil {
			continue
		}
		if v, ok := vars[name]; ok && v != "" {
			return v, path
		}
	}
	return "", ""
}

// parseDotEnv reads KEY=VALUE lines from a .env file. Blank lines and #
// comments are skipped; surrounding quotes on values are stripped.
func parseDotEnv(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}
		if key != "" {
			vars[key] = val
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}
