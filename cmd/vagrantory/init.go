// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vagrantory/vagrantory/pkg/sourcefile"
	"github.com/vagrantory/vagrantory/pkg/types"
)

// newInitCommand creates the `vagrantory init` command.
func newInitCommand(app *App) *cobra.Command {
	var (
		force    bool
		template string
	)

	initCmd := &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a starter inventory source file",
		Long: `Create a starter inventory source file in the current directory.

The generated file documents every key the chosen provider understands.
Edit the project paths (or the API endpoint) and point Ansible at it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "vagrantory.yml"
			if len(args) > 0 {
				filename = args[0]
			}
			return runInit(app, filename, template, force)
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing source file")
	initCmd.Flags().StringVarP(&template, "template", "t", "vagrant", "provider template to generate (vagrant, proxmox)")

	return initCmd
}

func runInit(app *App, filename, template string, force bool) error {
	content, err := generateSourceFile(template)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filename); err == nil && !force {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if !sourcefile.VerifyName(types.FilesystemPath(filename)) {
		fmt.Fprintf(app.stderr, "%s %q is not a file name discovery probes for; reach it with --inventory or a sources entry in the config\n",
			WarningStyle.Render("!"), filepath.Base(filename))
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Next steps:"))
	if template == "proxmox" {
		fmt.Fprintln(app.stdout, "  1. Edit the file to point at your Proxmox API endpoint")
	} else {
		fmt.Fprintln(app.stdout, "  1. Edit the file to list your Vagrant project folders")
	}
	fmt.Fprintln(app.stdout, "  2. Check the result: vagrantory list")
	fmt.Fprintf(app.stdout, "  3. Point Ansible at it: ansible-playbook -i %s site.yml\n", filename)

	return nil
}

// generateSourceFile returns a commented YAML scaffold for the template.
func generateSourceFile(template string) (string, error) {
	switch template {
	case "vagrant":
		return `# vagrantory inventory source (vagrant provider).
# Ansible consumes this file through the vagrantory binary:
#   ansible-playbook -i vagrantory.yml site.yml
plugin: vagrant

# Vagrant project folders to query. Relative paths resolve against this
# file's directory.
paths:
  - path: ~/vagrant/example
    # group: example        # override the group derived from the folder name
    # vars:                 # group variables for every host in this entry
    #   env: lab

# Key hosts by the host-only IP from each Vagrantfile instead of the
# machine name.
host_only_ips: false

# Cache provider results between invocations.
cache: false
# cache_plugin: jsonfile
# cache_connection: ~/.vagrantory/cache
# cache_timeout: 3600

# Parent group for every host from this source (defaults to the provider
# name).
# group: vagrant
`, nil

	case "proxmox":
		return `# vagrantory inventory source (proxmox provider).
# Ansible consumes this file through the vagrantory binary:
#   ansible-playbook -i vagrantory.yml site.yml
plugin: proxmox

# API endpoint and token. The token can live inline or in a file.
url: https://pve.example:8006
# token: user@pam!vagrantory=00000000-0000-0000-0000-000000000000
token_file: ~/.config/vagrantory/proxmox-token
# insecure: true           # skip TLS verification for self-signed certs
# node: pve1               # restrict discovery to one cluster node

# Cache provider results between invocations. The proxmox provider hits
# a network API, so caching is on by default in this template.
cache: true
cache_plugin: jsonfile
cache_connection: ~/.vagrantory/cache
cache_timeout: 3600

# Parent group for every host from this source (defaults to "proxmox").
# group: proxmox
`, nil

	default:
		return "", fmt.Errorf("unknown template %q (valid: vagrant, proxmox)", template)
	}
}
