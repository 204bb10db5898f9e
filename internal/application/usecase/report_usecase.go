package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// StockReportGenerator puerto de salida que renderiza el reporte (implementado en infrastructure/pdf).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report *dto.StockReport) ([]byte, error)
}

// ReportUseCase arma el reporte de stock valorizado.
type ReportUseCase struct {
	repo              repository.SweetRepository
	generator         StockReportGenerator
	lowStockThreshold int64
	now               func() time.Time
}

// NewReportUseCase construye el caso de uso. lowStockThreshold marca filas con quantity <= umbral.
func NewReportUseCase(repo repository.SweetRepository, generator StockReportGenerator, lowStockThreshold int64) *ReportUseCase {
	return &ReportUseCase{repo: repo, generator: generator, lowStockThreshold: lowStockThreshold, now: time.Now}
}

// BuildStockReport agrega el inventario actual: valor por fila (price × quantity) y totales.
func (uc *ReportUseCase) BuildStockReport(ctx context.Context) (*dto.StockReport, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	report := buildStockReport(list, uc.lowStockThreshold)
	report.GeneratedAt = uc.now()
	return report, nil
}

// StockReport devuelve el reporte renderizado (PDF).
func (uc *ReportUseCase) StockReport(ctx context.Context) ([]byte, error) {
	report, err := uc.BuildStockReport(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := uc.generator.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("generar reporte de stock: %w", err)
	}
	return doc, nil
}

func buildStockReport(list []*entity.Sweet, threshold int64) *dto.StockReport {
	report := &dto.StockReport{
		Lines:             make([]dto.StockReportLine, 0, len(list)),
		TotalValue:        decimal.Zero,
		LowStockThreshold: threshold,
	}
	for _, s := range list {
		value := s.Price.Mul(decimal.NewFromInt(s.Quantity))
		low := s.Quantity <= threshold
		report.Lines = append(report.Lines, dto.StockReportLine{
			Name:       s.Name,
			Category:   s.Category,
			Price:      s.Price,
			Quantity:   s.Quantity,
			StockValue: value,
			LowStock:   low,
		})
		report.TotalUnits += s.Quantity
		report.TotalValue = report.TotalValue.Add(value)
		if low {
			report.LowStockCount++
		}
	}
	report.TotalItems = len(report.Lines)
	return report
}
