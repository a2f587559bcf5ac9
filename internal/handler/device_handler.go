package handler

import (
	"errors"
	"strconv"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DeviceHandler struct {
	devices  *repository.DeviceRepository
	balances *repository.BalanceRepository
	usages   *repository.UsageLogRepository
}

func NewDeviceHandler(devices *repository.DeviceRepository, balances *repository.BalanceRepository, usages *repository.UsageLogRepository) *DeviceHandler {
	return &DeviceHandler{devices: devices, balances: balances, usages: usages}
}

// loadOwned mengambil device by id param dan menerapkan predikat
// kepemilikan. Semua endpoint per-device lewat sini. Kalau ok=false,
// respons error sudah ditulis dan handler tinggal return nil.
func (h *DeviceHandler) loadOwned(c *fiber.Ctx) (model.Device, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "ID perangkat tidak valid",
		})
		return model.Device{}, false
	}

	device, err := h.devices.GetByID(uint(id))
	if errors.Is(err, model.ErrDeviceNotFound) {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error", "message": "Perangkat tidak ditemukan",
		})
		return model.Device{}, false
	}
	if err != nil {
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil data perangkat",
		})
		return model.Device{}, false
	}

	userID := c.Locals("user_id").(uint)
	role := c.Locals("role").(string)
	if !model.CanAccessDevice(userID, role, &device) {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error", "message": "Akses ditolak: bukan perangkat Anda",
		})
		return model.Device{}, false
	}

	return device, true
}

func (h *DeviceHandler) Create(c *fiber.Ctx) error {
	var input struct {
		DeviceKey string `json:"device_key"`
		Name      string `json:"name"`
		Location  string `json:"location"`
		UserID    uint   `json:"user_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Input tidak valid",
		})
	}

	userID := c.Locals("user_id").(uint)
	role := c.Locals("role").(string)

	ownerID := userID
	// Admin boleh mendaftarkan perangkat atas nama user lain
	if input.UserID != 0 && model.Can(role, model.CapBypassOwnership) {
		ownerID = input.UserID
	}

	key := input.DeviceKey
	if key == "" {
		key = uuid.NewString()
	}

	device := model.Device{
		DeviceKey: key,
		Name:      input.Name,
		Location:  input.Location,
		IsActive:  true,
		UserID:    ownerID,
	}
	if err := h.devices.Create(&device); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal membuat perangkat (device key sudah terpakai?)",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Perangkat berhasil dibuat",
		"data":    device,
	})
}

func (h *DeviceHandler) GetAll(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	role := c.Locals("role").(string)

	var (
		devices []model.Device
		err     error
	)
	if model.Can(role, model.CapBypassOwnership) {
		devices, err = h.devices.GetAll()
	} else {
		devices, err = h.devices.GetByOwner(userID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil daftar perangkat",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil daftar perangkat",
		"data":    devices,
	})
}

func (h *DeviceHandler) GetDetail(c *fiber.Ctx) error {
	device, ok := h.loadOwned(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil detail perangkat",
		"data":    device,
	})
}

func (h *DeviceHandler) Update(c *fiber.Ctx) error {
	device, ok := h.loadOwned(c)
	if !ok {
		return nil
	}

	var input struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Input tidak valid",
		})
	}

	if input.Name != "" {
		device.Name = input.Name
	}
	if input.Location != "" {
		device.Location = input.Location
	}
	if err := h.devices.Update(&device); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal memperbarui perangkat",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Perangkat berhasil diperbarui",
		"data":    device,
	})
}

// Toggle membalik flag aktif (soft deactivate, bukan hapus).
func (h *DeviceHandler) Toggle(c *fiber.Ctx) error {
	device, ok := h.loadOwned(c)
	if !ok {
		return nil
	}

	if err := h.devices.SetActive(device.ID, !device.IsActive); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengubah status perangkat",
		})
	}
	device.IsActive = !device.IsActive

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Status perangkat berhasil diubah",
		"data":    device,
	})
}

// Delete menghapus permanen beserta token/saldo/log pemakaiannya.
func (h *DeviceHandler) Delete(c *fiber.Ctx) error {
	device, ok := h.loadOwned(c)
	if !ok {
		return nil
	}

	if err := h.devices.Delete(device.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal menghapus perangkat",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Perangkat berhasil dihapus",
	})
}

func (h *DeviceHandler) GetBalance(c *fiber.Ctx) error {
	device, ok := h.loadOwned(c)
	if !ok {
		return nil
	}

	balance, err := h.balances.Get(device.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil saldo",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil saldo",
		"data": fiber.Map{
			"device_id":  device.ID,
			"device_key": device.DeviceKey,
			"balance":    model.FromMinor(balance.Balance),
			"last_token": balance.LastToken,
		},
	})
}

func (h *DeviceHandler) GetUsages(c *fiber.Ctx) error {
	device, ok := h.loadOwned(c)
	if !ok {
		return nil
	}

	logs, err := h.usages.GetByDevice(device.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil log pemakaian",
		})
	}

	data := make([]fiber.Map, 0, len(logs))
	for _, usage := range logs {
		data = append(data, fiber.Map{
			"id":         usage.ID,
			"device_id":  usage.DeviceID,
			"amount":     model.FromMinor(usage.Amount),
			"created_at": usage.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil log pemakaian",
		"data":    data,
	})
}

func (h *DeviceHandler) GetUsageSummary(c *fiber.Ctx) error {
	device, ok := h.loadOwned(c)
	if !ok {
		return nil
	}

	summary, err := h.usages.SummaryByDevice(device.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil rekap pemakaian",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil rekap pemakaian",
		"data": fiber.Map{
			"device_id": device.ID,
			"count":     summary.Count,
			"total":     model.FromMinor(summary.Total),
		},
	})
}
