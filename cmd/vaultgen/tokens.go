package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/praxos/vaults/internal/modules/risk"
	"gopkg.in/yaml.v3"
)

type tokenFile struct {
	Tokens []risk.Token `json:"tokens" yaml:"tokens"`
}

// loadTokens reads a token list from a YAML or JSON file. Both a bare list
// and an object with a "tokens" key are accepted.
func loadTokens(path string) ([]risk.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tokens []risk.Token
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		tokens, err = decodeJSONTokens(data)
	default:
		tokens, err = decodeYAMLTokens(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens in %s", path)
	}
	return tokens, nil
}

func decodeJSONTokens(data []byte) ([]risk.Token, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var tokens []risk.Token
		err := json.Unmarshal(data, &tokens)
		return tokens, err
	}

	var f tokenFile
	err := json.Unmarshal(data, &f)
	return f.Tokens, err
}

func decodeYAMLTokens(data []byte) ([]risk.Token, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	doc := node.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var tokens []risk.Token
		err := doc.Decode(&tokens)
		return tokens, err
	}

	var f tokenFile
	err := doc.Decode(&f)
	return f.Tokens, err
}
