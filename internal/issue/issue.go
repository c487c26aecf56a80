// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SourceNotFoundId Id = iota + 1
	SourceParseErrorId
	ProviderNotFoundId
	VagrantNotFoundId
	VagrantCommandFailedId
	UnknownCachePluginId
	CacheConfigInvalidId
	ConfigLoadFailedId
	HostNotFoundId
	GroupCycleId
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

	sourceNotFoundIssue = &Issue{
		id: SourceNotFoundId,
		mdMsg: `
# No inventory source found!

We searched for an inventory source file but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. The path given with --inventory / -i
2. Current directory (vagrantory.yml, vagrant.yml, dynamic.yml, and .yaml variants)
3. Paths configured under 'sources' in your config file

## Things you can try:
- Create a source file in your current directory:
~~~
$ vagrantory init
~~~

- Or point at one explicitly:
~~~
$ vagrantory --inventory /path/to/vagrantory.yml list
~~~

## Example source file:
~~~yaml
plugin: vagrant
paths:
  - path: /home/user/vagrant/k8s-cluster
    group: kubernetes
~~~`,
	}

	sourceParseErrorIssue = &Issue{
		id: SourceParseErrorId,
		mdMsg: `
# Failed to parse the inventory source!

Your source file contains invalid YAML or invalid configuration.

## Common issues:
- Invalid YAML syntax (bad indentation, missing colons)
- Unknown field names (the parser is strict)
- Missing 'plugin' token
- A 'paths' entry without a 'path'

## Things you can try:
- Check the error message above for the specific field
- Run with verbose mode for more details:
~~~
$ vagrantory --verbose list
~~~

## Example of a valid source file:
~~~yaml
plugin: vagrant
cache: true
paths:
  - path: ~/vagrant/k8s-cluster
    group: kubernetes
    vars:
      env: lab
host_only_ips: true
~~~`,
	}

	providerNotFoundIssue = &Issue{
		id: ProviderNotFoundId,
		mdMsg: `
# Unknown inventory provider!

The 'plugin' token in your source file does not name a registered provider.

## Registered providers:
- **vagrant**: queries 'vagrant ssh-config' per configured project folder
- **proxmox**: queries the Proxmox VE API for running guests

## Things you can try:
- Fix the 'plugin' field in your source file:
~~~yaml
plugin: vagrant
~~~
- Check for typos; provider names are lowercase`,
	}

	vagrantNotFoundIssue = &Issue{
		id: VagrantNotFoundId,
		mdMsg: `
# Vagrant not found!

The vagrant binary is missing or not runnable, so no project folder can be queried.

## Things you can try:
- Install Vagrant: https://developer.hashicorp.com/vagrant/install
- Check that 'vagrant' is in your PATH:
~~~
$ vagrant --version
~~~
- Or point at a specific binary in ~/.config/vagrantory/config.cue:
~~~cue
vagrant: {
    binary: "/opt/vagrant/bin/vagrant"
}
~~~`,
	}

	vagrantCommandFailedIssue = &Issue{
		id: VagrantCommandFailedId,
		mdMsg: `
# Vagrant command failed!

A vagrant invocation exited with an error.

## Common causes:
- The project folder has no Vagrantfile
- The Vagrantfile has Ruby syntax errors
- No VM is up yet ('vagrant ssh-config' needs running machines)
- The command exceeded its timeout

## Things you can try:
- Run the failing command by hand inside the project folder:
~~~
$ cd /path/to/project && vagrant ssh-config
~~~
- Bring the machines up first:
~~~
$ vagrant up
~~~
- Raise the timeout in your config file:
~~~cue
vagrant: {
    command_timeout: 60
}
~~~`,
	}

	unknownCachePluginIssue = &Issue{
		id: UnknownCachePluginId,
		mdMsg: `
# Unknown cache plugin!

The configured cache plugin does not name a registered backend.

## Registered backends:
- **memory**: per-invocation in-process cache, needs no connection
- **jsonfile**: one JSON file per entry in a directory, needs a connection

## Where the plugin can be set (highest precedence first):
1. 'cache_plugin' in the source file
2. VAGRANTORY_CACHE_PLUGIN environment variable
3. 'cache.plugin' in your config file

## Things you can try:
- Fix the value, e.g.:
~~~
$ export VAGRANTORY_CACHE_PLUGIN=jsonfile
~~~`,
	}

	cacheConfigInvalidIssue = &Issue{
		id: CacheConfigInvalidId,
		mdMsg: `
# Invalid cache configuration!

The selected cache backend cannot be constructed from the configured settings.

## Common causes:
- 'jsonfile' selected but no connection (directory) configured
- The connection path exists but is not a directory
- A negative cache timeout

## Things you can try:
- Set the connection for file-backed caches:
~~~
$ export VAGRANTORY_CACHE_CONNECTION=~/.vagrantory/cache
~~~
- Or configure it permanently in ~/.config/vagrantory/config.cue:
~~~cue
cache: {
    plugin:     "jsonfile"
    connection: "~/.vagrantory/cache"
    timeout:    3600
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the vagrantory configuration file.

## Configuration file locations:
- Linux: ~/.config/vagrantory/config.cue
- macOS: ~/Library/Application Support/vagrantory/config.cue
- Windows: %APPDATA%\vagrantory\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ vagrantory config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/vagrantory/config.cue
~~~

## Example configuration:
~~~cue
cache: {
    plugin:  "jsonfile"
    connection: "~/.vagrantory/cache"
}

ui: {
    color_scheme: "auto"
    verbose:      false
}
~~~`,
	}

	hostNotFoundIssue = &Issue{
		id: HostNotFoundId,
		mdMsg: `
# Host not found!

The requested host is not present in the resolved inventory.

## Things you can try:
- List every host the inventory knows about:
~~~
$ vagrantory graph
~~~
- Check for typos; when host_only_ips is enabled, hosts are keyed by their
  private IP rather than the VM name
- Refresh a stale cache:
~~~
$ vagrantory list --refresh
~~~`,
	}

	groupCycleIssue = &Issue{
		id: GroupCycleId,
		mdMsg: `
# Group cycle detected!

The inventory group hierarchy contains a cycle, which would make the
group tree infinite.

## Things you can try:
- Review the 'group' names in your source files; two sources may nest the
  same pair of groups in opposite directions
- Rename one of the colliding groups`,
	}

	issues = map[Id]*Issue{
		sourceNotFoundIssue.Id():       sourceNotFoundIssue,
		sourceParseErrorIssue.Id():     sourceParseErrorIssue,
		providerNotFoundIssue.Id():     providerNotFoundIssue,
		vagrantNotFoundIssue.Id():      vagrantNotFoundIssue,
		vagrantCommandFailedIssue.Id(): vagrantCommandFailedIssue,
		unknownCachePluginIssue.Id():   unknownCachePluginIssue,
		cacheConfigInvalidIssue.Id():   cacheConfigInvalidIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		hostNotFoundIssue.Id():         hostNotFoundIssue,
		groupCycleIssue.Id():           groupCycleIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
