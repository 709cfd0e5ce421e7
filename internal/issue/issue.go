// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ModuleNotFoundId Id = iota + 1
	PublicDirMissingId
	ManifestNotFoundId
	ManifestParseErrorId
	ExportPatternMissingId
	LintFailedId
	ReimportFailedId
	ConfigLoadFailedId
	InvalidVersionId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# No module found!

We searched for a shell module but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. Current directory (and its parents, up to the filesystem root)
2. ~/.shmod/modules/
3. Directories listed under module_roots in your config file

## Things you can try:
- Scaffold a module in the current directory:
~~~
$ shmod create mytools
~~~

- Or point shmod at an existing module:
~~~
$ shmod regen --root /path/to/mytools
~~~

## A module directory looks like:
~~~
mytools/
├── shmod.cue       # manifest
├── mytools.sh      # generated loader
├── public/         # exported functions, one per file
└── private/        # internal helpers
~~~`,
	}

	publicDirMissingIssue = &Issue{
		id: PublicDirMissingId,
		mdMsg: `
# Missing public/ directory!

Every module must have a public/ directory, even an empty one. It is the
export surface: each .sh file in it defines one function named after the file.

## Things you can try:
- Create the directory:
~~~
$ mkdir public
~~~

- Or re-scaffold the module layout:
~~~
$ shmod create <name>
~~~`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No shmod.cue manifest found!

The directory is missing its shmod.cue manifest, so shmod cannot treat it
as a module.

## Things you can try:
- Scaffold a fresh module (creates the manifest for you):
~~~
$ shmod create <name>
~~~

- Or write a minimal manifest by hand:
~~~cue
module: "mytools"
version: "0.1.0"

exports: {
	functions: []
	aliases: []
}
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse shmod.cue!

Your manifest contains syntax errors or invalid values.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A module name that is not lowercase (must match ` + "`^[a-z][a-z0-9_-]*$`" + `)
- A version that is not strict semver (e.g. "1.0" instead of "1.0.0")

## Things you can try:
- Check the error message above for the specific line/column
- Validate the module as a whole:
~~~
$ shmod validate
~~~

## Example of a valid manifest:
~~~cue
module: "mytools"
version: "0.1.0"
description: "Small helpers for everyday work"

exports: {
	functions: ["get-foo", "set-bar"]
	aliases: ["sb"]
}
~~~`,
	}

	exportPatternMissingIssue = &Issue{
		id: ExportPatternMissingId,
		mdMsg: `
# Export arrays not found in manifest!

shmod regen updates the functions and aliases arrays inside the exports
block in place. It could not locate one of them, so that array was left
untouched.

## Expected manifest shape:
~~~cue
exports: {
	functions: [...]
	aliases: [...]
}
~~~

## Things you can try:
- Add the missing array (an empty list is fine) and rerun:
~~~
$ shmod regen
~~~

- Comments around the arrays are preserved; only the bracketed list
  itself is rewritten`,
	}

	lintFailedIssue = &Issue{
		id: LintFailedId,
		mdMsg: `
# Lint found errors!

The module's shell files have problems that would break loading or
exporting, so the build stopped.

## Common causes:
- Shell syntax errors in a public or private file
- A public file that never defines its function (file name and function
  name must match exactly)
- Malformed alias annotations

## Things you can try:
- Run lint on its own for the full report:
~~~
$ shmod lint
~~~

- Suppress a finding you cannot fix right now with an exception in
  lint.toml (every exception needs a documented reason):
~~~toml
[[exception]]
code = "missing-function"
path = "public/legacy-tool.sh"
reason = "wrapper sourced from vendored script"
~~~`,
	}

	reimportFailedIssue = &Issue{
		id: ReimportFailedId,
		mdMsg: `
# Loader reimport failed!

After regeneration the loader was sourced in an embedded shell to verify
every exported function is actually defined. At least one was not.

## Common causes:
- A public file that defines the function conditionally
- An unset -f or unset call that removes the function again
- A file that exits early before the function definition

## Things you can try:
- Source the loader in a real shell and inspect:
~~~
$ . ./<module>.sh && command -v <function>
~~~

- Check the reported function's file for top-level control flow
- Rerun with the probe skipped while you investigate:
~~~
$ shmod build --skip-reimport
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the shmod configuration file.

## Configuration file locations:
- Linux: ~/.config/shmod/config.cue
- macOS: ~/Library/Application Support/shmod/config.cue
- Windows: %APPDATA%\shmod\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ shmod config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/shmod/config.cue
~~~

## Example configuration:
~~~cue
module_roots: [
	"/home/user/shell-modules",
]

ui: {
	color_scheme: "auto"
	verbose: false
}
~~~`,
	}

	invalidVersionIssue = &Issue{
		id: InvalidVersionId,
		mdMsg: `
# Invalid version!

The manifest's version field is not a strict semantic version, so shmod
cannot bump it.

## Valid examples:
- 0.1.0
- 1.2.3-rc.1
- 2.0.0+build.17

## Invalid examples:
- 1.0 (missing patch component)
- v1.0.0 (no leading v)
- 1.02.0 (no leading zeros)

## Things you can try:
- Fix the version field in shmod.cue by hand, then bump normally:
~~~
$ shmod bump patch
~~~

- Or set it outright:
~~~
$ shmod bump --set 1.0.0
~~~`,
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():       moduleNotFoundIssue,
		publicDirMissingIssue.Id():     publicDirMissingIssue,
		manifestNotFoundIssue.Id():     manifestNotFoundIssue,
		manifestParseErrorIssue.Id():   manifestParseErrorIssue,
		exportPatternMissingIssue.Id(): exportPatternMissingIssue,
		lintFailedIssue.Id():           lintFailedIssue,
		reimportFailedIssue.Id():       reimportFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		invalidVersionIssue.Id():       invalidVersionIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
