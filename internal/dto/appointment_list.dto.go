package dto

import "github.com/BruksfildServices01/salon-scheduler/internal/models"

type AppointmentListDTO struct {
	ID          uint   `json:"id"`
	Date        string `json:"appointment_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone,omitempty"`
	ServiceName string `json:"service_name"`
}

func FromAppointments(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.Date,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			ClientEmail: ap.ClientEmail,
			ClientPhone: ap.ClientPhone,
			ServiceName: ap.Service.Name,
		})
	}
	return out
}
