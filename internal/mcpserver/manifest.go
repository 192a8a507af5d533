package mcpserver

import (
	"encoding/json"
	"strings"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	repositoryURL  = "https://github.com/panbanda/reactify"
	imageName      = "ghcr.io/panbanda/reactify"
)

// Manifest is the registry entry (server.json) for the reactify server.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	WebsiteURL  string      `json:"websiteUrl,omitempty"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is one way to install and launch the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVariable `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvVariable documents an environment variable the server reads.
type EnvVariable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

type Transport struct {
	Type string `json:"type"`
}

// manifestVersion turns a build version into a registry version. Tags lose
// their "v" and development builds become 0.0.0.
func manifestVersion(version string) string {
	version = strings.TrimPrefix(version, "v")
	if version == "" || version == "dev" {
		return "0.0.0"
	}
	return version
}

// GenerateManifest renders server.json for the given build version.
func GenerateManifest(version string) ([]byte, error) {
	version = manifestVersion(version)

	return json.MarshalIndent(Manifest{
		Schema:      manifestSchema,
		Name:        "io.github.panbanda/reactify",
		Title:       "reactify",
		Description: "Rewrites plain variables in React components and hooks into useState pairs",
		Version:     version,
		WebsiteURL:  repositoryURL,
		Repository:  &Repository{URL: repositoryURL, Source: "github"},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       imageName + ":" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			EnvironmentVariables: []EnvVariable{{
				Name:        "REACTIFY_CONFIG",
				Description: "Path to a reactify.toml, reactify.yaml or reactify.json file",
			}},
			Transport: Transport{Type: "stdio"},
		}},
	}, "", "  ")
}
