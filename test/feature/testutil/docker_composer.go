package testutil

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

const (
	defaultDockerTimeout        = 30 * time.Second
	defaultDockerComposeTimeout = 90 * time.Second
	defaultContainerStopTimeout = 30
	shell                       = "/bin/sh"
)

// Composer drives the containers of a test cluster.
type Composer interface {
	// Up starts every service of the compose file.
	Up(env []string) error
	// Down removes every service together with its volumes.
	Down() error
	// Services lists compose service names, sorted.
	Services() []string
	// GetAddr maps a container port to the address published on the host.
	GetAddr(service string, port int) (string, error)
	// RunCommand runs cmd inside the service container. Stdout and stderr
	// are returned together.
	RunCommand(service, cmd string, timeout time.Duration) (retcode int, output string, err error)
	// GetFile streams a file out of the service container.
	GetFile(service, path string) (io.ReadCloser, error)
	Stop(service string) error
	Start(service string) error
}

// DockerComposer runs services with `docker compose` and inspects them with
// the docker API.
type DockerComposer struct {
	projectName string
	config      string
	api         *client.Client
	containers  map[string]container.Summary
	stopped     map[string]bool
}

// NewDockerComposer prepares a compose project. The pid suffix keeps
// containers of concurrent runs apart.
func NewDockerComposer(project, config string) (*DockerComposer, error) {
	if config == "" {
		config = "docker-compose.yaml"
	}
	config, err := filepath.Abs(config)
	if err != nil {
		return nil, fmt.Errorf("compose file path: %w", err)
	}
	if project == "" {
		project = filepath.Base(filepath.Dir(config))
	}
	api, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &DockerComposer{
		projectName: fmt.Sprintf("%s-%d", project, os.Getpid()),
		config:      config,
		api:         api,
		containers:  map[string]container.Summary{},
		stopped:     map[string]bool{},
	}, nil
}

func (dc *DockerComposer) runCompose(env []string, args ...string) error {
	full := append([]string{"compose", "-f", dc.config, "-p", dc.projectName}, args...)
	cmd := exec.Command("docker", full...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker %s: %w\n%s", strings.Join(full, " "), err, out)
	}
	return nil
}

// refresh reloads container state for the project and fails if a service
// that was not stopped on purpose is not running.
func (dc *DockerComposer) refresh() error {
	list, err := dc.api.ContainerList(context.Background(), container.ListOptions{All: true})
	if err != nil {
		return err
	}
	var notRunning []string
	for _, c := range list {
		if c.Labels["com.docker.compose.project"] != dc.projectName {
			continue
		}
		srv := c.Labels["com.docker.compose.service"]
		if srv == "" {
			continue
		}
		dc.containers[srv] = c
		// one-shot services exit on their own
		if c.State != "running" && c.State != "exited" && !dc.stopped[srv] {
			notRunning = append(notRunning, fmt.Sprintf("%s is %s", srv, c.State))
		}
	}
	if len(notRunning) > 0 {
		return fmt.Errorf("containers not running: %s", strings.Join(notRunning, ", "))
	}
	return nil
}

func (dc *DockerComposer) Up(env []string) error {
	timeout := strconv.Itoa(int(defaultDockerComposeTimeout / time.Second))
	if err := dc.runCompose(env, "up", "-d", "--build", "--force-recreate", "-t", timeout); err != nil {
		_ = dc.refresh()
		return err
	}
	return dc.refresh()
}

func (dc *DockerComposer) Down() error {
	return dc.runCompose(nil, "down", "-v")
}

func (dc *DockerComposer) Services() []string {
	services := make([]string, 0, len(dc.containers))
	for s := range dc.containers {
		services = append(services, s)
	}
	sort.Strings(services)
	return services
}

func (dc *DockerComposer) lookup(service string) (container.Summary, error) {
	c, ok := dc.containers[service]
	if !ok {
		return container.Summary{}, fmt.Errorf("no such service: %s", service)
	}
	return c, nil
}

func (dc *DockerComposer) GetAddr(service string, port int) (string, error) {
	c, err := dc.lookup(service)
	if err != nil {
		return "", err
	}
	for _, p := range c.Ports {
		if int(p.PrivatePort) != port || p.PublicPort == 0 {
			continue
		}
		ip := p.IP
		if ip == "" || ip == "0.0.0.0" || ip == "::" {
			ip = "127.0.0.1"
		}
		return net.JoinHostPort(ip, strconv.Itoa(int(p.PublicPort))), nil
	}
	return "", fmt.Errorf("service %s does not publish port %d", service, port)
}

func (dc *DockerComposer) RunCommand(service string, cmd string, timeout time.Duration) (int, string, error) {
	c, err := dc.lookup(service)
	if err != nil {
		return 0, "", err
	}
	if timeout == 0 {
		timeout = defaultDockerTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	created, err := dc.api.ContainerExecCreate(ctx, c.ID, container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          []string{shell, "-c", cmd},
	})
	if err != nil {
		return 0, "", err
	}
	attached, err := dc.api.ContainerExecAttach(ctx, created.ID, container.ExecStartOptions{})
	if err != nil {
		return 0, "", err
	}
	var out bytes.Buffer
	_, err = stdcopy.StdCopy(&out, &out, attached.Reader)
	attached.Close()
	if err != nil {
		return 0, "", fmt.Errorf("demultiplex exec output: %w", err)
	}

	var insp container.ExecInspect
	Retry(func() bool {
		insp, err = dc.api.ContainerExecInspect(ctx, created.ID)
		return err != nil || !insp.Running
	}, timeout, 100*time.Millisecond)
	if err != nil {
		return 0, "", err
	}
	if insp.Running {
		return 0, "", fmt.Errorf("command %q did not finish within %s", cmd, timeout)
	}
	return insp.ExitCode, out.String(), nil
}

func (dc *DockerComposer) GetFile(service, path string) (io.ReadCloser, error) {
	c, err := dc.lookup(service)
	if err != nil {
		return nil, err
	}
	reader, _, err := dc.api.CopyFromContainer(context.Background(), c.ID, path)
	if err != nil {
		return nil, err
	}
	tr := tar.NewReader(reader)
	if _, err := tr.Next(); err != nil {
		_ = reader.Close()
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{tr, reader}, nil
}

func (dc *DockerComposer) Start(service string) error {
	c, err := dc.lookup(service)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultDockerTimeout)
	defer cancel()
	stopTimeout := defaultContainerStopTimeout
	if err := dc.api.ContainerRestart(ctx, c.ID, container.StopOptions{Timeout: &stopTimeout}); err != nil {
		return err
	}
	delete(dc.stopped, service)
	// published ports change on restart
	return dc.refresh()
}

func (dc *DockerComposer) Stop(service string) error {
	c, err := dc.lookup(service)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultDockerTimeout)
	defer cancel()
	stopTimeout := defaultContainerStopTimeout
	dc.stopped[service] = true
	return dc.api.ContainerStop(ctx, c.ID, container.StopOptions{Timeout: &stopTimeout})
}
