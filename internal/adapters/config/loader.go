// Package config provides the target declaration loader for mason.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.GraphLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the nearest mason.yaml above cwd and returns the validated
// target graph.
func (l *Loader) Load(cwd string) (*domain.TargetGraph, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path walked up from cwd
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file targetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	graph, err := buildGraph(file)
	if err != nil {
		return nil, err
	}

	l.Logger.Debug(fmt.Sprintf("loaded %d targets from %s", graph.Len(), configPath))
	return graph, nil
}

// findConfiguration walks up from cwd looking for the target file.
func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.TargetFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func buildGraph(file targetFile) (*domain.TargetGraph, error) {
	nodes := make([]domain.TargetNode, 0, len(file.Targets))
	for _, decl := range file.Targets {
		node, err := buildNode(decl)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return domain.NewTargetGraph(nodes)
}

func buildNode(decl targetDecl) (domain.TargetNode, error) {
	id, err := domain.ParseTargetID(decl.Name)
	if err != nil {
		return domain.TargetNode{}, err
	}

	declared, err := parseDeps(decl.Name, decl.Deps)
	if err != nil {
		return domain.TargetNode{}, err
	}
	extra, err := parseDeps(decl.Name, decl.ExtraDeps)
	if err != nil {
		return domain.TargetNode{}, err
	}
	graphOnly, err := parseDeps(decl.Name, decl.TargetGraphOnlyDeps)
	if err != nil {
		return domain.TargetNode{}, err
	}

	kind := decl.Kind
	if kind == "" {
		kind = "genrule"
	}
	cacheable := decl.Cacheable == nil || *decl.Cacheable

	return domain.NewTargetNode(id, kind, cacheable, declared, extra, graphOnly, decl.Args), nil
}

func parseDeps(owner string, deps []string) ([]domain.TargetID, error) {
	ids := make([]domain.TargetID, 0, len(deps))
	for _, dep := range deps {
		id, err := domain.ParseTargetID(dep)
		if err != nil {
			return nil, zerr.With(err, "declared_by", owner)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
