package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncodeSnapshot serializes the full ordered collection as a JSON array.
// A nil or empty collection encodes as "[]".
func EncodeSnapshot(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a blob produced by EncodeSnapshot.
// Order is preserved. A JSON null decodes to an empty collection.
// Duplicate IDs are rejected since they break store invariants.
func DecodeSnapshot(blob string) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal([]byte(blob), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("failed to parse snapshot: task with empty id")
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("failed to parse snapshot: duplicate id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// MarshalYAML renders tasks as a YAML sequence for human-readable dumps.
// Multi-line descriptions use block scalar style.
func MarshalYAML(tasks []Task) ([]byte, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range tasks {
		seq.Content = append(seq.Content, buildTaskNode(&tasks[i]))
	}
	doc := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "tasks"},
		seq,
	)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

func buildTaskNode(t *Task) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	addStringField(node, "id", t.ID)
	addStringField(node, "title", t.Title)
	if t.Description != "" {
		addMultilineStringField(node, "description", t.Description)
	}
	addScalar(node, "completed", fmt.Sprintf("%t", t.Completed), "!!bool")
	addScalar(node, "created_at", fmt.Sprintf("%d", t.CreatedAt), "!!int")
	return node
}

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value},
	)
}

func addScalar(node *yaml.Node, key, value, tag string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag},
	)
}

func addMultilineStringField(node *yaml.Node, key, value string) {
	var style yaml.Style
	if strings.Contains(value, "\n") {
		style = yaml.LiteralStyle
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: style},
	)
}
