package adapters

import (
	"fmt"
	"sync"
)

// Constructor - функция-конструктор адаптера.
// Возвращает новый экземпляр (еще не подключенный к БД).
type Constructor func(dsn string) Adapter

// Factory - реестр конструкторов адаптеров по имени драйвера.
type Factory struct {
	registry map[string]Constructor
	mu       sync.RWMutex
}

// NewFactory создает пустую фабрику адаптеров.
func NewFactory() *Factory {
	return &Factory{
		registry: make(map[string]Constructor),
	}
}

// Register регистрирует конструктор адаптера для драйвера.
func (f *Factory) Register(driver string, constructor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry[driver] = constructor
}

// IsRegistered проверяет, зарегистрирован ли драйвер.
func (f *Factory) IsRegistered(driver string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.registry[driver]
	return ok
}

// RegisteredDrivers возвращает список зарегистрированных драйверов.
func (f *Factory) RegisteredDrivers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	drivers := make([]string, 0, len(f.registry))
	for driver := range f.registry {
		drivers = append(drivers, driver)
	}
	return drivers
}

// Create создает адаптер по имени драйвера.
// Адаптер возвращается неподключенным, Connect вызывает клиент.
func (f *Factory) Create(driver, dsn string) (Adapter, error) {
	f.mu.RLock()
	constructor, ok := f.registry[driver]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown database driver: %s (available: %v)",
			driver, f.RegisteredDrivers())
	}

	return constructor(dsn), nil
}

// ========== Global Factory ==========

var globalFactory = NewFactory()

// Register регистрирует адаптер в глобальной фабрике.
// Обычно вызывается в init() пакета адаптера.
func Register(driver string, constructor Constructor) {
	globalFactory.Register(driver, constructor)
}

// Create создает адаптер через глобальную фабрику.
func Create(driver, dsn string) (Adapter, error) {
	return globalFactory.Create(driver, dsn)
}

// IsRegistered проверяет регистрацию драйвера в глобальной фабрике.
func IsRegistered(driver string) bool {
	return globalFactory.IsRegistered(driver)
}
