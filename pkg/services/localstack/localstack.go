// Package localstack provides a LocalStack S3 companion service backed by
// testcontainers, for tests that need an S3-compatible endpoint.
//
// If LOCALSTACK_ENDPOINT is set in the environment, the service attaches to
// that external instance instead of starting a container, and Stop leaves it
// running.
package localstack

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/companion/internal/logger"
)

// Config holds the settings for a LocalStack companion.
type Config struct {
	// ServiceName is the registry name. Defaults to "localstack".
	ServiceName string
	// Image is the container image. Defaults to "localstack/localstack:3.0".
	Image string
	// Region for the S3 client. Defaults to "us-east-1".
	Region string
	// StartupTimeout bounds the wait for readiness. Defaults to 3 minutes;
	// LocalStack is slow to start when the image needs pulling.
	StartupTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "localstack"
	}
	if c.Image == "" {
		c.Image = "localstack/localstack:3.0"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.StartupTimeout == 0 {
		c.StartupTimeout = 3 * time.Minute
	}
}

// Service is a LocalStack S3 companion service.
type Service struct {
	cfg Config

	mu        sync.Mutex
	container testcontainers.Container
	endpoint  string
	client    *s3.Client
}

// New creates a LocalStack companion with the given configuration. Zero-value
// fields take defaults.
func New(cfg Config) *Service {
	cfg.applyDefaults()
	return &Service{cfg: cfg}
}

// Name returns the configured service name.
func (s *Service) Name() string { return s.cfg.ServiceName }

// Endpoint returns the S3 endpoint URL of the running instance, or "" before
// Start / after Stop.
func (s *Service) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// Client returns an S3 client bound to the running instance, or nil before
// Start / after Stop.
func (s *Service) Client() *s3.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// Start launches the container (or attaches to an external instance), waits
// for the health endpoint, and verifies S3 answers a ListBuckets call.
// Failure to come up panics.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.endpoint != "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StartupTimeout)
	defer cancel()

	if endpoint := os.Getenv("LOCALSTACK_ENDPOINT"); endpoint != "" {
		s.endpoint = endpoint
		s.connect(ctx)
		logger.Info("using external localstack", "service", s.cfg.ServiceName, "endpoint", endpoint)
		return
	}

	req := testcontainers.ContainerRequest{
		Image:        s.cfg.Image,
		ExposedPorts: []string{"4566/tcp"},
		Env: map[string]string{
			"SERVICES":              "s3",
			"EAGER_SERVICE_LOADING": "1",
			// LocalStack 3.0+ defaults to HTTPS; force plain HTTP.
			"GATEWAY_LISTEN": "0.0.0.0:4566",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("4566/tcp"),
			wait.ForHTTP("/_localstack/health").WithPort("4566/tcp"),
		).WithDeadline(s.cfg.StartupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		logger.Error("failed to start localstack container", "service", s.cfg.ServiceName, "error", err)
		panic(fmt.Sprintf("localstack companion %q: start: %v", s.cfg.ServiceName, err))
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(context.Background())
		panic(fmt.Sprintf("localstack companion %q: host: %v", s.cfg.ServiceName, err))
	}
	port, err := container.MappedPort(ctx, "4566")
	if err != nil {
		_ = container.Terminate(context.Background())
		panic(fmt.Sprintf("localstack companion %q: port: %v", s.cfg.ServiceName, err))
	}

	s.container = container
	s.endpoint = fmt.Sprintf("http://%s:%s", host, port.Port())
	s.connect(ctx)
	logger.Info("localstack companion started", "service", s.cfg.ServiceName, "endpoint", s.endpoint)
}

// Stop terminates the container. Tolerates being called when nothing is
// running.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.container == nil {
		s.endpoint = ""
		s.client = nil
		return
	}

	if err := s.container.Terminate(context.Background()); err != nil {
		logger.Warn("failed to terminate localstack container", "service", s.cfg.ServiceName, "error", err)
	}
	s.container = nil
	s.endpoint = ""
	s.client = nil
	logger.Info("localstack companion stopped", "service", s.cfg.ServiceName)
}

// connect builds the S3 client (path-style URLs and static credentials, as
// LocalStack requires) and verifies the endpoint answers. Called with s.mu
// held.
func (s *Service) connect(ctx context.Context) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			"test", "test", "",
		)),
	)
	if err != nil {
		panic(fmt.Sprintf("localstack companion %q: aws config: %v", s.cfg.ServiceName, err))
	}

	s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
		o.UsePathStyle = true
	})

	if _, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
		panic(fmt.Sprintf("localstack companion %q: list buckets: %v", s.cfg.ServiceName, err))
	}
}
