package lambda

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sigrod-cmd/Examen-licencia/internal/config"
	"github.com/sigrod-cmd/Examen-licencia/pkg/server"
)

// ContainerManager builds the service container once per execution
// environment and reuses it across warm invocations
type ContainerManager struct {
	container *server.Container
	lastUsed  time.Time
	mu        sync.Mutex

	loadConfig func() (*config.Config, error)
	options    []server.Option
}

var (
	globalContainerManager *ContainerManager
	containerManagerOnce   sync.Once
)

// GetContainerManager returns the global container manager instance
func GetContainerManager() *ContainerManager {
	containerManagerOnce.Do(func() {
		globalContainerManager = NewContainerManager(config.GetOptimizedConfig)
	})
	return globalContainerManager
}

// NewContainerManager creates a manager that loads configuration lazily
func NewContainerManager(loadConfig func() (*config.Config, error), opts ...server.Option) *ContainerManager {
	return &ContainerManager{
		loadConfig: loadConfig,
		options:    opts,
	}
}

// GetContainer returns the service container, initializing it if necessary.
// A failed initialization is retried on the next invocation.
func (cm *ContainerManager) GetContainer() (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		cm.lastUsed = time.Now()
		return cm.container, nil
	}

	cfg, err := cm.loadConfig()
	if err != nil {
		return nil, err
	}

	if err := config.ConfigureLogging(cfg.Logging); err != nil {
		return nil, err
	}

	container, err := server.NewContainer(cfg, cm.options...)
	if err != nil {
		return nil, err
	}

	sc := config.GetServerlessConfig()
	logrus.WithFields(logrus.Fields{
		"function": sc.FunctionName,
		"region":   sc.Region,
		"stage":    sc.Stage,
		"profile":  container.Profile.Name,
	}).Info("Lambda container initialized")

	cm.container = container
	cm.lastUsed = time.Now()
	return container, nil
}

// IsWarm reports whether a container is cached and was used recently
func (cm *ContainerManager) IsWarm(maxIdle time.Duration) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	return cm.container != nil && time.Since(cm.lastUsed) < maxIdle
}

// Cleanup releases the cached container
func (cm *ContainerManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}
	return nil
}
