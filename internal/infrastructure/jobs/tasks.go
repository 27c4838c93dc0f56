package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola única de los jobs del servicio.
	QueueDefault = "default"

	// TaskFinanceWarmup recalcula y cachea el dashboard de un tenant y genera avisos de KPIs.
	TaskFinanceWarmup = "finance:warmup"
	// TaskFinanceWarmupAll programado: warmup de todos los tenants activos.
	TaskFinanceWarmupAll = "finance:warmup_all"
	// TaskClientsSegment recalcula etiquetas y avisa de clientes que pasaron a Inativo.
	// CompanyID vacío = todos los tenants activos.
	TaskClientsSegment = "clients:segment"
)

// TenantPayload payload común: el tenant sobre el que actúa la tarea.
type TenantPayload struct {
	CompanyID string `json:"company_id"`
}

func newTenantTask(taskType, companyID string, opts ...asynq.Option) (*asynq.Task, error) {
	body, err := json.Marshal(TenantPayload{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body, append([]asynq.Option{asynq.Queue(QueueDefault)}, opts...)...), nil
}

// NewFinanceWarmupTask tarea de warmup para un tenant.
func NewFinanceWarmupTask(companyID string) (*asynq.Task, error) {
	return newTenantTask(TaskFinanceWarmup, companyID)
}

// NewFinanceWarmupAllTask tarea programada de warmup global.
func NewFinanceWarmupAllTask() (*asynq.Task, error) {
	return newTenantTask(TaskFinanceWarmupAll, "")
}

// NewClientsSegmentTask tarea de segmentación; companyID vacío = todos los tenants.
func NewClientsSegmentTask(companyID string) (*asynq.Task, error) {
	return newTenantTask(TaskClientsSegment, companyID)
}

func parseTenant(t *asynq.Task) (TenantPayload, error) {
	var p TenantPayload
	if len(t.Payload()) == 0 {
		return p, nil
	}
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}
