// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PackageNotFoundId Id = iota + 1
	PackageMetadataUnreadableId
	AssetNotFoundId
	ExtractionFailedId
	OutputDirUnwritableId
	ConfigLoadFailedId
	InterceptorUnavailableId
	NoAssetsSelectedId
	ExtractionTimedOutId
	ExtractionInterruptedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
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

// Render renders the issue with the given glamour style ("dark", "light", "auto", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, links := range [][]HttpLink{i.docLinks, i.extLinks} {
			for _, link := range links {
				md.WriteString("- <" + string(link) + ">\n")
			}
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Application package not found!

pakextract needs the installed package to copy resources from.

## Things you can try:
- Point ~package_path~ in your config at the package directory or archive:
~~~cue
package_path: "/opt/myapp/myapp.apk"
~~~
- Or pass it on the command line:
~~~
$ pakextract extract --package /opt/myapp
~~~
- Supported formats are a directory, a ~.zip~ file and an ~.apk~ file.`,
	}

	packageMetadataUnreadableIssue = &Issue{
		id: PackageMetadataUnreadableId,
		mdMsg: `
# Package version could not be determined!

Extracted files are named after the package version, so extraction cannot continue
without it.

## Things you can try:
- Make sure the package root contains a ~package.toml~ manifest:
~~~toml
version_code = 412
version_name = "4.12.0"
~~~
- Check that ~version_code~ is a non-negative integer and that no unknown keys are present.`,
		extLinks: []HttpLink{"https://toml.io/en/v1.0.0"},
	}

	assetNotFoundIssue = &Issue{
		id: AssetNotFoundId,
		mdMsg: `
# A required resource is missing from the package!

Every name in the required set must exist under ~assets/~ in the package (or be served
by a configured interceptor).

## Things you can try:
- List what would be extracted:
~~~
$ pakextract locales
~~~
- Remove the name from ~assets~ in your config, or rebuild the package with it included.
- Check the ~locales.available~ list matches the locales the package actually ships.`,
	}

	extractionFailedIssue = &Issue{
		id: ExtractionFailedId,
		mdMsg: `
# Resource extraction failed!

A file could not be copied out of the package. No partial file was left in place of
the output; the next run starts over.

## Things you can try:
- Check free disk space in the app data directory
- Re-run with ~--verbose~ to see which file failed
- Run ~pakextract status~ to see which files are present`,
	}

	outputDirUnwritableIssue = &Issue{
		id: OutputDirUnwritableId,
		mdMsg: `
# App data directory is not writable!

## Things you can try:
- Check ownership and permissions of the app data directory
- Choose another directory:
~~~cue
app_data_dir: "~/.local/share/myapp"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or did not match the schema.

## Things you can try:
- Show the file that is being used:
~~~
$ pakextract config path
~~~
- Write a fresh default file and compare:
~~~
$ pakextract config init
~~~
- Environment variables such as ~PAKEXTRACT_APP_DATA_DIR~ override file values.`,
	}

	interceptorUnavailableIssue = &Issue{
		id: InterceptorUnavailableId,
		mdMsg: `
# Interceptor source is unavailable!

Some resources are configured to come from object storage, but the server or bucket
could not be reached.

## Things you can try:
- Check ~interceptor.minio.endpoint~ and ~interceptor.minio.use_ssl~
- Verify the bucket exists and the credentials can read it
- Remove names from ~interceptor.minio.assets~ to read them from the package instead`,
		extLinks: []HttpLink{"https://min.io/docs/minio/linux/developers/go/minio-go.html"},
	}

	noAssetsSelectedIssue = &Issue{
		id: NoAssetsSelectedId,
		mdMsg: `
# Nothing to extract

The required set is empty, so extraction completed without touching the disk.

## Things you can try:
- Set ~assets~ explicitly in your config
- Or make sure the package ships ~<locale>.pak~ files under ~assets/~`,
	}

	extractionTimedOutIssue = &Issue{
		id: ExtractionTimedOutId,
		mdMsg: `
# Gave up waiting for extraction

The background extraction is still running; only this wait was abandoned.

## Things you can try:
- Raise ~--timeout~
- Run ~pakextract status~ later to check the result`,
	}

	extractionInterruptedIssue = &Issue{
		id: ExtractionInterruptedId,
		mdMsg: `
# Stopped waiting for extraction

The wait was interrupted before the background job finished. Files already renamed
into place are complete; anything still in progress was left as a ~.tmp~ file and is
replaced on the next run.

## Things you can try:
- Run ~pakextract extract~ again; finished files are reused once the set is complete
- Run ~pakextract status~ to see which files are present`,
	}

	issues = map[Id]*Issue{
		packageNotFoundIssue.Id():           packageNotFoundIssue,
		packageMetadataUnreadableIssue.Id(): packageMetadataUnreadableIssue,
		assetNotFoundIssue.Id():             assetNotFoundIssue,
		extractionFailedIssue.Id():          extractionFailedIssue,
		outputDirUnwritableIssue.Id():       outputDirUnwritableIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
		interceptorUnavailableIssue.Id():    interceptorUnavailableIssue,
		noAssetsSelectedIssue.Id():          noAssetsSelectedIssue,
		extractionTimedOutIssue.Id():        extractionTimedOutIssue,
		extractionInterruptedIssue.Id():     extractionInterruptedIssue,
	}
)

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	ids := make([]Id, 0, len(issues))
	for _, id := range maps.Keys(issues) {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
