package controllers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AdminController struct {
	Log            *zap.Logger
	AdminUsecase   contracts.AdminUsecase
	DoctorUsecase  contracts.DoctorUsecase
	StorageService contracts.StorageService
}

var (
	adminControllerInstance *AdminController
	onceAdminController     sync.Once
)

func NewAdminController(
	logger *zap.Logger,
	adminUsecase contracts.AdminUsecase,
	doctorUsecase contracts.DoctorUsecase,
	storageService contracts.StorageService,
) *AdminController {
	onceAdminController.Do(func() {
		instance := &AdminController{
			Log:            logger,
			AdminUsecase:   adminUsecase,
			DoctorUsecase:  doctorUsecase,
			StorageService: storageService,
		}
		adminControllerInstance = instance
	})
	return adminControllerInstance
}

func (ctrl *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	requestID, err := requestIDFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.AdminLogin)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := ctrl.AdminUsecase.Login(ctx, request)
	if err != nil {
		ctrl.Log.Error("AdminController.Login usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccessMessage, token)
}

func (ctrl *AdminController) AddDoctor(w http.ResponseWriter, r *http.Request) {
	requestID, err := requestIDFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemoryBytes); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	fees, err := strconv.ParseInt(r.FormValue("fees"), 10, 64)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	request := &requests.AddDoctor{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
		Speciality: r.FormValue("speciality"),
		Degree:     r.FormValue("degree"),
		Experience: r.FormValue("experience"),
		About:      r.FormValue("about"),
		Fees:       fees,
		Line1:      r.FormValue("line1"),
		Line2:      r.FormValue("line2"),
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	objectName, err := uploadFormImage(r, ctrl.StorageService, "doctors")
	if err != nil {
		ctrl.Log.Error("AdminController.AddDoctor image upload error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ImageID = objectName

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	doctor, err := ctrl.AdminUsecase.AddDoctor(ctx, request)
	if err != nil {
		ctrl.Log.Error("AdminController.AddDoctor usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.DoctorRegisteredSuccessMessage, doctor)
}

func (ctrl *AdminController) AllDoctors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doctors, err := ctrl.AdminUsecase.AllDoctors(ctx)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DoctorsFetchedSuccessMessage, doctors)
}

func (ctrl *AdminController) AllAppointments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	appointments, err := ctrl.AdminUsecase.AllAppointments(ctx)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AppointmentsFetchedSuccessMessage, appointments)
}

// ChangeAvailability lets the admin toggle any doctor named in the body.
func (ctrl *AdminController) ChangeAvailability(w http.ResponseWriter, r *http.Request) {
	requestID, err := requestIDFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ChangeAvailability)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doctor, err := ctrl.DoctorUsecase.ChangeAvailability(ctx, request.DoctorID)
	if err != nil {
		ctrl.Log.Error("AdminController.ChangeAvailability usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AvailabilityChangedSuccessMessage, doctor)
}

func (ctrl *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dashboard, err := ctrl.AdminUsecase.Dashboard(ctx)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DashboardFetchedSuccessMessage, dashboard)
}
