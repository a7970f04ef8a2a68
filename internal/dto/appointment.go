package dto

// ListAppointmentsQuery filters the appointment listing.
type ListAppointmentsQuery struct {
	Date     string `form:"date" binding:"omitempty,dateymd"`
	FromDate string `form:"from_date" binding:"omitempty,dateymd"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ExportAppointmentsQuery selects the export format and optional filters.
type ExportAppointmentsQuery struct {
	Format   string `form:"format,default=csv" binding:"omitempty,oneof=csv pdf"`
	Date     string `form:"date" binding:"omitempty,dateymd"`
	FromDate string `form:"from_date" binding:"omitempty,dateymd"`
}
