package transpiler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dekarrin/czar/internal/symbols"
	"github.com/dekarrin/czar/internal/token"
)

// importedTypedef matches the shape P7 generates for every struct it
// transforms (`typedef struct Name_s Name_t;`), so a `#import`ed sibling
// header seeds the same base -> typedef mapping P10 reads, whether that
// header came from another czar translation unit or was hand-written.
var importedTypedef = regexp.MustCompile(`typedef\s+struct\s+(\w+)_s\s+(\w+_t)\s*;`)

// resolveImports scans u for `#import name` directives (spec.md §6's
// "preprocessor-like directives recognised by the core") and, for each
// one, reads sibling file `name.cz.h` next to sourcePath and seeds tabs'
// struct map with every typedef mapping it finds. This is the out-of-
// core-scope, textual-only module resolution spec.md §9 describes: an
// unresolved import never blocks the pipeline, it only produces a
// warning message, returned here for the caller to fold into the final
// diagnostic report.
func resolveImports(u *token.Unit, sourcePath string, tabs *symbols.Tables) []string {
	var warnings []string
	dir := filepath.Dir(sourcePath)

	for i := 0; i < u.Len(); i++ {
		t := u.At(i)
		if t.Elided() || t.Kind != token.Preprocessor || t.Text != "#import" {
			continue
		}
		nameIdx := u.NextSignificant(i + 1)
		if nameIdx == -1 || u.At(nameIdx).Kind != token.Identifier {
			warnings = append(warnings, "#import directive with no following module name")
			continue
		}
		name := u.At(nameIdx).Text
		headerPath := filepath.Join(dir, name+".cz.h")

		data, err := os.ReadFile(headerPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("#import %s: could not read %s: %v", name, headerPath, err))
			continue
		}

		matches := importedTypedef.FindAllStringSubmatch(string(data), -1)
		if len(matches) == 0 {
			warnings = append(warnings, fmt.Sprintf("#import %s: %s defines no recognizable typedef", name, headerPath))
			continue
		}
		for _, m := range matches {
			tabs.Structs.Define(m[1], m[2])
		}
	}

	return warnings
}
