// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"embed"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FS embeds the Open API document of the registry API.
//
//go:embed registry.yaml
var FS embed.FS

var document openAPI

type openAPI struct {
	Info struct {
		Title   string
		Version string
	}
	Paths map[string]map[string]any
}

// Version returns the API version declared by the document.
func Version() string {
	return document.Info.Version
}

// Operations returns the documented operations as "METHOD /path" in sorted order.
func Operations() []string {
	var ops []string
	for path, methods := range document.Paths {
		for method := range methods {
			switch method {
			case "get", "put", "post", "delete", "patch", "head", "options":
				ops = append(ops, strings.ToUpper(method)+" "+path)
			}
		}
	}
	sort.Strings(ops)
	return ops
}

func init() {
	content, err := FS.ReadFile("registry.yaml")
	if err != nil {
		panic(err)
	}
	if err := yaml.Unmarshal(content, &document); err != nil {
		panic(err)
	}
}
