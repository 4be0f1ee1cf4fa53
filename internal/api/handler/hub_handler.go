package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Cho phép kết nối từ mọi nguồn
	},
}

// rpcRequest là khung gọi từ client: thao tác có tên + tham số JSON.
type rpcRequest struct {
	ID     string          `json:"id"`
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     string      `json:"id"`
	Op     string      `json:"op"`
	Result interface{} `json:"result,omitempty"`
	Error  *rpcError   `json:"error,omitempty"`
}

// HubHandler nhận kết nối websocket, xác thực token (tùy chọn) và phân
// phối các lời gọi RPC theo tên thao tác đến engine.
type HubHandler struct {
	hub            *Hub
	parkingService *service.ParkingService
	authService    *service.AuthService
	validate       *validator.Validate
}

func NewHubHandler(hub *Hub, parkingService *service.ParkingService, authService *service.AuthService) *HubHandler {
	return &HubHandler{
		hub:            hub,
		parkingService: parkingService,
		authService:    authService,
		validate:       validator.New(),
	}
}

// HandleWS nâng cấp kết nối HTTP lên websocket. Token truyền qua query
// `?token=` vì trình duyệt không gửi được header tùy ý khi bắt tay ws;
// thiếu token thì phiên ở chế độ ẩn danh (chỉ nhận broadcast).
func (h *HubHandler) HandleWS(c *gin.Context) {
	userID := 0
	role := ""
	if token := c.Query("token"); token != "" {
		_, claims, err := h.authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if sub, ok := claims["sub"].(string); ok {
			if id, err := strconv.Atoi(sub); err == nil {
				userID = id
			}
		}
		if r, ok := claims["role"].(string); ok {
			role = r
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Không thể nâng cấp lên websocket: %v", err)
		return
	}

	session := &Session{conn: conn, send: make(chan []byte, 256), userID: userID, role: role}
	h.hub.register <- session
	go session.writePump()
	go h.readPump(session)
}

func (h *HubHandler) readPump(session *Session) {
	defer func() {
		h.hub.unregister <- session
	}()

	for {
		_, data, err := session.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Lỗi websocket: %v", err)
			}
			return
		}

		var req rpcRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.reply(session, rpcResponse{Error: &rpcError{Code: string(service.CodeValidation), Message: "khung yêu cầu không hợp lệ"}})
			continue
		}

		resp := h.dispatch(context.Background(), session, req)
		h.reply(session, resp)
	}
}

// reply đi qua trySend: hub có thể đóng phiên bất cứ lúc nào (hàng đợi
// đầy), ghi thẳng vào kênh send sẽ panic khi kênh vừa bị đóng.
func (h *HubHandler) reply(session *Session, resp rpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Printf("Lỗi marshal phản hồi RPC: %v", err)
		return
	}
	if !session.trySend(data) {
		log.Printf("Bỏ phản hồi RPC %s: phiên đã đóng hoặc hàng đợi đầy", resp.Op)
	}
}

// dispatch ánh xạ tên thao tác sang engine. Tham số được kiểm tra bằng
// validator trước khi gọi; lỗi nghiệp vụ trả về nguyên văn, lỗi bất ngờ
// được che thành thông báo chung (không lộ chi tiết hạ tầng).
func (h *HubHandler) dispatch(ctx context.Context, session *Session, req rpcRequest) rpcResponse {
	result, err := h.invoke(ctx, session, req)
	resp := rpcResponse{ID: req.ID, Op: req.Op}
	if err != nil {
		resp.Error = toRPCError(err)
		return resp
	}
	resp.Result = result
	return resp
}

func toRPCError(err error) *rpcError {
	var bizErr *service.BusinessError
	if errors.As(err, &bizErr) {
		return &rpcError{Code: string(bizErr.Code), Message: bizErr.Message}
	}
	if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrTokenInvalid) {
		return &rpcError{Code: string(service.CodeValidation), Message: err.Error()}
	}
	log.Printf("Lỗi hệ thống trong RPC: %v", err)
	return &rpcError{Code: string(service.CodeSystem), Message: "lỗi hệ thống, vui lòng thử lại sau"}
}

// adminOps là các thao tác hub tương ứng với nhóm route REST chỉ dành cho
// quản trị viên — cùng một chính sách cho cả hai bề mặt.
var adminOps = map[string]bool{
	"UpdateSlotStatus": true,
	"CreateSlot":       true,
	"BulkCreateSlots":  true,
	"UpdateSlot":       true,
	"DeleteSlot":       true,
	"BulkDeleteSlots":  true,
}

// authorize áp cùng chính sách với middleware REST: mọi thao tác cần phiên
// đã xác thực (phiên ẩn danh chỉ nhận broadcast), thao tác quản trị cần
// role admin.
func (h *HubHandler) authorize(session *Session, op string) error {
	if session.userID == 0 {
		return service.ErrUnauthorized("cần đăng nhập để thực hiện thao tác này")
	}
	if adminOps[op] && session.role != domain.RoleAdmin {
		return service.ErrUnauthorized("bạn không có quyền thực hiện thao tác này")
	}
	return nil
}

func (h *HubHandler) invoke(ctx context.Context, session *Session, req rpcRequest) (interface{}, error) {
	if err := h.authorize(session, req.Op); err != nil {
		return nil, err
	}

	switch req.Op {
	case "RegisterParking":
		var params domain.RegisterParkingRequest
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.RegisterParking(ctx, params)

	case "StaffRegisterParking":
		var params domain.RegisterParkingRequest
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.StaffRegisterParking(ctx, session.userID, params)

	case "CheckOut":
		var params struct {
			RegistrationID int `json:"registration_id" validate:"required,gt=0"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.CheckOut(ctx, domain.CheckOutRequest{RegistrationID: params.RegistrationID})

	case "CheckOutWithPayment":
		var params domain.CheckOutRequest
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.CheckOut(ctx, params)

	case "CalculateParkingFee":
		var params struct {
			RegistrationID int `json:"registration_id" validate:"required,gt=0"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.CalculateFee(ctx, params.RegistrationID)

	case "GetAllSlots":
		return h.parkingService.GetAllSlots(ctx)

	case "GetSlotsByArea":
		return h.parkingService.GetSlotsByArea(ctx)

	case "GetParkingOverview":
		return h.parkingService.GetParkingOverview(ctx)

	case "GetSlotById":
		var params struct {
			SlotID int `json:"slot_id" validate:"required,gt=0"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.GetSlotByID(ctx, params.SlotID)

	case "GetAvailableSlots":
		return h.parkingService.GetAvailableSlots(ctx)

	case "UpdateSlotStatus":
		var params struct {
			SlotID int    `json:"slot_id" validate:"required,gt=0"`
			Status string `json:"status" validate:"required"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.UpdateSlotStatus(ctx, params.SlotID, params.Status)

	case "CreateSlot":
		var params domain.SlotDTO
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.CreateSlot(ctx, params)

	case "BulkCreateSlots":
		var params domain.BulkCreateSlotsDTO
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.BulkCreateSlots(ctx, params)

	case "UpdateSlot":
		var params struct {
			SlotID int    `json:"slot_id" validate:"required,gt=0"`
			Code   string `json:"code" validate:"required"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.UpdateSlot(ctx, params.SlotID, domain.SlotDTO{Code: params.Code})

	case "DeleteSlot":
		var params struct {
			SlotID int  `json:"slot_id" validate:"required,gt=0"`
			Force  bool `json:"force"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.DeleteSlot(ctx, params.SlotID, params.Force)

	case "BulkDeleteSlots":
		var params domain.BulkDeleteSlotsDTO
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.BulkDeleteSlots(ctx, params)

	case "GetSlotsByAreaForCustomer":
		var params struct {
			CustomerID int `json:"customer_id" validate:"required,gt=0"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.GetSlotsByAreaForCustomer(ctx, params.CustomerID)

	case "CheckCustomerByPhone":
		var params struct {
			Phone string `json:"phone" validate:"required"`
		}
		if err := h.bind(req.Params, &params); err != nil {
			return nil, err
		}
		return h.parkingService.CheckCustomerByPhone(ctx, params.Phone)

	default:
		return nil, service.ErrValidation("thao tác '" + req.Op + "' không tồn tại")
	}
}

func (h *HubHandler) bind(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return service.ErrValidation("thiếu tham số")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return service.ErrValidation("tham số không hợp lệ: " + err.Error())
	}
	if err := h.validate.Struct(out); err != nil {
		return service.ErrValidation("tham số không hợp lệ: " + err.Error())
	}
	return nil
}
