package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation - тип операции пайплайна подготовки данных
type Operation string

const (
	OpLoad    Operation = "load"    // загрузка исходного датасета
	OpSelect  Operation = "select"  // проекция колонок
	OpClean   Operation = "clean"   // чистка строк
	OpDerive  Operation = "derive"  // вывод производных признаков
	OpSplit   Operation = "split"   // разбиение train/test
	OpExport  Operation = "export"  // экспорт подвыборок
	OpReport  Operation = "report"  // отчет о качестве модели
	OpPublish Operation = "publish" // публикация результата запуска
)

// Status - статус выполнения операции
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry - запись в audit логе пайплайна
type Entry struct {
	// ID - уникальный идентификатор записи
	ID string `json:"id"`

	// Timestamp - время операции
	Timestamp time.Time `json:"timestamp"`

	// Operation - тип операции
	Operation Operation `json:"operation"`

	// Status - статус выполнения
	Status Status `json:"status"`

	// Pipeline - имя запуска пайплайна
	Pipeline string `json:"pipeline,omitempty"`

	// Resource - ресурс операции (датасет, таблица, файл)
	Resource string `json:"resource,omitempty"`

	// RecordsAffected - количество строк на выходе операции
	RecordsAffected int64 `json:"records_affected,omitempty"`

	// Duration - длительность операции
	Duration time.Duration `json:"duration,omitempty"`

	// ErrorMessage - сообщение об ошибке
	ErrorMessage string `json:"error_message,omitempty"`

	// Metadata - дополнительные метаданные операции
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewEntry - создать новую audit запись
func NewEntry(operation Operation, status Status) *Entry {
	return &Entry{
		ID:        generateID(),
		Timestamp: time.Now(),
		Operation: operation,
		Status:    status,
		Metadata:  make(map[string]interface{}),
	}
}

// WithPipeline - установить имя пайплайна
func (e *Entry) WithPipeline(name string) *Entry {
	e.Pipeline = name
	return e
}

// WithResource - установить ресурс
func (e *Entry) WithResource(resource string) *Entry {
	e.Resource = resource
	return e
}

// WithRecordsAffected - установить количество строк
func (e *Entry) WithRecordsAffected(count int64) *Entry {
	e.RecordsAffected = count
	return e
}

// WithDuration - установить длительность
func (e *Entry) WithDuration(duration time.Duration) *Entry {
	e.Duration = duration
	return e
}

// WithError - установить ошибку и перевести статус в failure
func (e *Entry) WithError(err error) *Entry {
	if err != nil {
		e.ErrorMessage = err.Error()
		e.Status = StatusFailure
	}
	return e
}

// WithMetadata - добавить метаданные
func (e *Entry) WithMetadata(key string, value interface{}) *Entry {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ToJSON - преобразовать в JSON
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// String - строковое представление для текстового формата лога
func (e *Entry) String() string {
	return fmt.Sprintf("[%s] %s %s (pipeline=%s, resource=%s, records=%d, duration=%v)",
		e.Timestamp.Format(time.RFC3339),
		e.Operation,
		e.Status,
		e.Pipeline,
		e.Resource,
		e.RecordsAffected,
		e.Duration,
	)
}

// generateID - генерация уникального ID записи
func generateID() string {
	return fmt.Sprintf("audit-%d-%d",
		time.Now().UnixNano(),
		time.Now().Unix()%1000,
	)
}
