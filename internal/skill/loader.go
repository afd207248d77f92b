package skill

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const manifestFile = "skill.yaml"

// defaultDescription is the templated placeholder used when a manifest
// omits description entirely.
func defaultDescription(name string) string {
	return fmt.Sprintf("%s skill (no description provided)", name)
}

// ScanDir scans root one level deep. For each subdirectory it looks for a
// skill.yaml manifest: missing manifests are silently skipped, malformed
// ones are logged and skipped. Name falls back to the directory name,
// description to a templated placeholder, tags to an empty slice.
//
// If root does not exist, ScanDir returns an empty slice — a repo that
// hasn't created its skills directory yet is not an error.
func ScanDir(root string) ([]*Manifest, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("skill: scan %q: %w", root, err)
	}

	var manifests []*Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		dir := filepath.Join(root, e.Name())
		path := filepath.Join(dir, manifestFile)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Printf("[Skill] WARNING: skipping %q: %v", path, err)
			continue
		}

		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			log.Printf("[Skill] WARNING: malformed manifest %q: %v", path, err)
			continue
		}

		if m.Name == "" {
			m.Name = e.Name()
		}
		if m.Description == "" {
			m.Description = defaultDescription(m.Name)
		}
		if m.Tags == nil {
			m.Tags = []string{}
		}
		if m.Type != "" && !knownTypes[m.Type] {
			log.Printf("[Skill] WARNING: %q has unrecognized type %q", m.Name, m.Type)
		}
		m.Dir = dir

		manifests = append(manifests, &m)
	}

	return manifests, nil
}
