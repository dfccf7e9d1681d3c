// internal/routes/api_routes.go
package routes

import (
	"github.com/Erdalk05/akademihub-sub001/internal/handlers"
	"github.com/Erdalk05/akademihub-sub001/internal/middleware"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes kimlik doğrulaması isteyen tüm API rotalarını kaydeder.
// Defteri değiştiren uçlar muhasebe rolü ister; okuma uçları tüm roller
// için açıktır.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	ledgerWrite := middleware.RoleMiddleware(models.RoleAccountant)

	apiGroup := api.Group("/api")
	{
		// --- KAYIT SİHİRBAZI ---
		enrollment := apiGroup.Group("/enrollment/drafts")
		{
			enrollment.POST("", handlers.CreateEnrollmentDraftHandler)
			enrollment.GET("/:id", handlers.GetEnrollmentDraftHandler)
			enrollment.PUT("/:id/student", handlers.UpdateDraftStudentHandler)
			enrollment.PUT("/:id/fee", handlers.UpdateDraftFeeHandler)
			enrollment.PUT("/:id/plan", handlers.UpdateDraftPlanHandler)
			enrollment.GET("/:id/preview", handlers.PreviewDraftScheduleHandler)
			enrollment.POST("/:id/commit", ledgerWrite, handlers.CommitEnrollmentDraftHandler)
		}

		// --- ÖĞRENCİLER ---
		students := apiGroup.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.PUT("/:id", handlers.UpdateStudentHandler)
			students.GET("/:id/installments", handlers.ListStudentInstallmentsHandler)
			students.POST("/:id/installments", ledgerWrite, handlers.AddManualInstallmentHandler)
			students.POST("/:id/plan/from-form", ledgerWrite, handlers.GeneratePlanFromFormHandler)
			students.POST("/:id/restructure", ledgerWrite, handlers.RestructureStudentHandler)
			students.POST("/:id/restructure/preview", handlers.PreviewRestructureHandler)
			students.GET("/:id/risk", handlers.StudentRiskHandler)
		}

		// --- TAKSİTLER / TAHSİLAT ---
		installments := apiGroup.Group("/installments")
		{
			installments.POST("/:id/payments", ledgerWrite, handlers.ApplyPaymentHandler)
			installments.DELETE("/:id", ledgerWrite, handlers.DeleteInstallmentHandler)
			installments.GET("/:id/receipt", handlers.InstallmentReceiptHandler)
			installments.GET("/export", handlers.ExportInstallmentsHandler)
		}

		// --- PLAN ÖNİZLEME / ŞABLONLAR ---
		apiGroup.POST("/schedule/preview", handlers.PreviewScheduleHandler)
		forms := apiGroup.Group("/payment-forms")
		{
			forms.GET("", handlers.ListPaymentFormsHandler)
			forms.POST("", ledgerWrite, handlers.CreatePaymentFormHandler)
		}

		// --- RAPORLAR ---
		reports := apiGroup.Group("/reports")
		{
			reports.GET("/monthly", handlers.MonthlyReportHandler)
			reports.GET("/portfolio", handlers.PortfolioReportHandler)
			reports.GET("/debtors", handlers.ListDebtorsHandler)
			reports.GET("/debtors/export", handlers.ExportDebtorsHandler)
		}

		// --- İÇE AKTARMA ---
		importGroup := apiGroup.Group("/import/students")
		{
			importGroup.POST("/preview", ledgerWrite, handlers.PreviewImportHandler)
			importGroup.POST("/commit", ledgerWrite, handlers.CommitImportHandler)
		}

		// --- SINIFLAR / ÜCRET TARİFESİ ---
		classes := apiGroup.Group("/classes")
		{
			classes.GET("", handlers.ListClassesHandler)
			classes.POST("", middleware.RoleMiddleware(models.RoleAdmin), handlers.CreateClassHandler)
		}
		fees := apiGroup.Group("/tuition-fees")
		{
			fees.GET("", handlers.ListTuitionFeesHandler)
			fees.PUT("/:grade", middleware.RoleMiddleware(models.RoleAdmin), handlers.UpsertTuitionFeeHandler)
		}
	}
}
