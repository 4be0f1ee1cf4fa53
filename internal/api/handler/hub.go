package handler

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Session là một kết nối websocket đang mở. userID > 0 khi client đã xác
// thực bằng token — dùng cho các sự kiện gửi nhắm đến từng người; role đi
// kèm token để phân quyền các thao tác quản trị.
type Session struct {
	conn   *websocket.Conn
	send   chan []byte
	userID int
	role   string

	mu     sync.Mutex
	closed bool
}

// trySend ghi vào hàng đợi của phiên nếu phiên còn mở và còn chỗ. Có hai
// phía cùng ghi (vòng lặp hub và goroutine đọc RPC) nên kênh send chỉ được
// đóng qua closeSend — không bao giờ close trực tiếp.
func (s *Session) trySend(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

func (s *Session) closeSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

type directMessage struct {
	userID int
	data   []byte
}

// pushEnvelope là khung của mọi sự kiện đẩy từ server: tên sự kiện cố định
// và payload có kiểu xác định theo từng tên.
type pushEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub là sổ đăng ký phiên websocket. Không có biến toàn cục: hub được tạo
// trong main và tiêm vào những nơi cần phát sự kiện. Mọi thay đổi tập phiên
// đi qua vòng lặp Run nên không cần khóa.
type Hub struct {
	sessions   map[*Session]bool
	byUser     map[int]map[*Session]bool
	register   chan *Session
	unregister chan *Session
	broadcast  chan []byte
	direct     chan directMessage
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[*Session]bool),
		byUser:     make(map[int]map[*Session]bool),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		broadcast:  make(chan []byte, 64),
		direct:     make(chan directMessage, 64),
	}
}

// Run là vòng lặp sở hữu tập phiên; chạy trong goroutine riêng.
func (h *Hub) Run() {
	for {
		select {
		case session := <-h.register:
			h.sessions[session] = true
			if session.userID > 0 {
				if h.byUser[session.userID] == nil {
					h.byUser[session.userID] = make(map[*Session]bool)
				}
				h.byUser[session.userID][session] = true
			}
			log.Printf("Phiên websocket kết nối (user=%d). Tổng: %d", session.userID, len(h.sessions))

		case session := <-h.unregister:
			if _, ok := h.sessions[session]; ok {
				delete(h.sessions, session)
				if session.userID > 0 {
					delete(h.byUser[session.userID], session)
					if len(h.byUser[session.userID]) == 0 {
						delete(h.byUser, session.userID)
					}
				}
				session.closeSend()
			}
			log.Printf("Phiên websocket ngắt kết nối. Tổng: %d", len(h.sessions))

		case message := <-h.broadcast:
			for session := range h.sessions {
				h.deliver(session, message)
			}

		case msg := <-h.direct:
			for session := range h.byUser[msg.userID] {
				h.deliver(session, msg.data)
			}
		}
	}
}

// deliver không chặn vòng lặp hub: phiên có hàng đợi đầy bị loại bỏ.
func (h *Hub) deliver(session *Session, message []byte) {
	if !session.trySend(message) {
		delete(h.sessions, session)
		if session.userID > 0 {
			delete(h.byUser[session.userID], session)
			if len(h.byUser[session.userID]) == 0 {
				delete(h.byUser, session.userID)
			}
		}
		session.closeSend()
	}
}

// BroadcastAll phát một sự kiện đến mọi phiên, fire-and-forget: phát sau
// khi dữ liệu đã commit nhưng không đảm bảo giao nhận — truy vấn trạng thái
// mới là nguồn sự thật.
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	message, err := json.Marshal(pushEnvelope{Event: event, Payload: payload})
	if err != nil {
		log.Printf("Lỗi marshal sự kiện %s: %v", event, err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		log.Printf("Kênh broadcast đầy, bỏ qua sự kiện %s", event)
	}
}

// SendToUser phát một sự kiện đến mọi phiên của đúng một người dùng.
func (h *Hub) SendToUser(userID int, event string, payload interface{}) {
	message, err := json.Marshal(pushEnvelope{Event: event, Payload: payload})
	if err != nil {
		log.Printf("Lỗi marshal sự kiện %s: %v", event, err)
		return
	}
	select {
	case h.direct <- directMessage{userID: userID, data: message}:
	default:
		log.Printf("Kênh direct đầy, bỏ qua sự kiện %s cho user %d", event, userID)
	}
}

// writePump là goroutine ghi duy nhất của một phiên; kết thúc khi hub đóng
// kênh send.
func (s *Session) writePump() {
	defer s.conn.Close()
	for message := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Lỗi ghi websocket: %v", err)
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
