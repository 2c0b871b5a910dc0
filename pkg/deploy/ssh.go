package deploy

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

// SSHDeployer pushes script artifacts to a device over SSH. RouterOS
// and similar CLIs execute each line piped into the session shell, so
// no file transfer subsystem is needed.
type SSHDeployer struct {
	opts Options
}

// NewSSHDeployer creates an SSH deployer for the given target.
func NewSSHDeployer(opts Options) *SSHDeployer {
	return &SSHDeployer{opts: opts}
}

// Deploy streams every artifact in the bundle through a remote shell
// session. The dial honors the context deadline; an already-started
// artifact push is not interrupted.
func (d *SSHDeployer) Deploy(ctx context.Context, bundle *render.Bundle) error {
	password := d.opts.Password
	if password == "" {
		var err error
		password, err = PromptPassword(fmt.Sprintf("Password for %s@%s: ", d.opts.Username, d.opts.Host))
		if err != nil {
			return util.NewDeployError(bundle.Site, bundle.Vendor, "auth", err)
		}
	}

	config := &ssh.ClientConfig{
		User: d.opts.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
		},
		// Branch devices are provisioned before their host keys are
		// known.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         d.opts.timeout(),
	}

	port := d.opts.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", d.opts.Host, port)

	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return util.NewDeployError(bundle.Site, bundle.Vendor, "dial",
			fmt.Errorf("ssh dial %s: %w", addr, err))
	}
	defer client.Close()

	// A cancelled context tears the connection down, which unblocks any
	// in-flight session.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			client.Close()
		case <-done:
		}
	}()

	for _, a := range bundle.Artifacts {
		if err := ctx.Err(); err != nil {
			return util.NewDeployError(bundle.Site, bundle.Vendor, "push", err)
		}
		if err := d.pushArtifact(client, a); err != nil {
			return util.NewDeployError(bundle.Site, bundle.Vendor, "push",
				fmt.Errorf("artifact %s: %w", a.Name, err))
		}
		util.WithSite(bundle.Site).Infof("pushed %s to %s", a.Name, d.opts.Host)
	}

	return nil
}

func (d *SSHDeployer) pushArtifact(client *ssh.Client, a *render.Artifact) error {
	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdin = bytes.NewReader(a.Content)
	session.Stdout = &out
	session.Stderr = &out

	if err := session.Shell(); err != nil {
		return fmt.Errorf("starting shell: %w", err)
	}
	if err := session.Wait(); err != nil {
		return fmt.Errorf("%w (device output: %s)", err, out.String())
	}
	return nil
}

// PromptPassword reads a password from the terminal without echo.
func PromptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}
