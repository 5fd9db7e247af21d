// websocket.go

package game

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jacl-coder/EpicGame-Server/internal/protocol"
	"github.com/jacl-coder/EpicGame-Server/internal/view"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second

	// 读取超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的间隔时间
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 4 * 1024

	// 发送队列长度
	sendBuffer = 64
)

var (
	errBossUnavailable = errors.New("boss unavailable")
	errAttackBusy      = errors.New("attack already in progress")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 允许所有跨域请求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWSConnection 处理WebSocket连接
func (s *ArenaServer) handleWSConnection(w http.ResponseWriter, r *http.Request) {
	if limit := s.config.Server.MaxConnections; limit > 0 && s.ConnectionCount() >= limit {
		http.Error(w, "连接数已满", http.StatusServiceUnavailable)
		return
	}

	// 升级HTTP连接为WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket升级失败: %v", err)
		return
	}

	arenaConn := &ArenaConnection{
		ID:    uuid.New().String(),
		Arena: view.NewArena(s.ctx, s.factory),
		Send:  make(chan []byte, sendBuffer),
	}
	arenaConn.touch(time.Now())

	// 添加到连接列表
	s.connMutex.Lock()
	s.connections[arenaConn.ID] = arenaConn
	s.connMutex.Unlock()

	log.Printf("连接 %s 已建立", arenaConn.ID)

	// 启动读写协程
	go s.readPump(conn, arenaConn)
	go s.writePump(conn, arenaConn)

	go func() {
		<-arenaConn.Arena.Mount()
		s.sendBoss(arenaConn)
	}()
}

// readPump 从WebSocket读取数据
func (s *ArenaServer) readPump(conn *websocket.Conn, c *ArenaConnection) {
	defer func() {
		s.closeConnection(c)
		conn.Close()
	}()

	// 设置读取参数
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		c.touch(time.Now())
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket错误: %v", err)
			}
			break
		}

		c.touch(time.Now())

		// 处理接收到的消息
		s.handleMessage(c, message)
	}
}

// writePump 向WebSocket写入数据，每条消息一帧
func (s *ArenaServer) writePump(conn *websocket.Conn, c *ArenaConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection 关闭连接并卸载其视图
func (s *ArenaServer) closeConnection(c *ArenaConnection) {
	s.connMutex.Lock()
	// 检查连接是否已关闭
	if _, ok := s.connections[c.ID]; !ok {
		s.connMutex.Unlock()
		return
	}

	// 关闭发送通道
	close(c.Send)

	// 从连接列表移除
	delete(s.connections, c.ID)
	s.connMutex.Unlock()

	c.Arena.Close()
	log.Printf("连接 %s 已断开", c.ID)
}

// handleMessage 处理接收到的消息
func (s *ArenaServer) handleMessage(c *ArenaConnection, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Printf("%v", err)
		s.sendError(c, err)
		return
	}

	switch msg.Type {
	case protocol.TypeAttack:
		go s.handleAttack(c)
	case protocol.TypeBoss:
		s.sendBoss(c)
	default:
		log.Printf("未知消息类型: %s", msg.Type)
	}
}

// handleAttack 发起攻击；同一连接同时只允许一笔攻击交易
func (s *ArenaServer) handleAttack(c *ArenaConnection) {
	if !c.attackMu.TryLock() {
		s.sendError(c, errAttackBusy)
		return
	}
	defer c.attackMu.Unlock()

	ctx, cancel := s.confirmContext()
	defer cancel()

	result, err := c.Arena.Attack(ctx)
	if err != nil {
		s.sendError(c, err)
		return
	}

	info := &protocol.AttackResultInfo{TxHash: result.TxHash.Hex(), Attacker: result.From.Hex(), NewBossHp: -1, NewPlayerHp: -1}
	if result.Outcome != nil {
		info = protocol.ConvertAttackOutcome(*result.Outcome)
		if s.recorder != nil {
			var block uint64
			if result.Receipt != nil && result.Receipt.BlockNumber != nil {
				block = result.Receipt.BlockNumber.Uint64()
			}
			s.recorder.RecordAttack(ctx, *result.Outcome, block)
		}
	}
	s.sendMessage(c, protocol.TypeAttackResult, info)

	s.notifyBossChanged(result.TxHash.Hex(), c)
}

// notifyBossChanged 广播 boss_changed，然后每个连接刷新自己的视图并推送快照；
// origin 的视图在 Attack 中已经刷新过，只推送快照
func (s *ArenaServer) notifyBossChanged(txHash string, origin *ArenaConnection) {
	s.broadcastMessage(protocol.TypeBossChanged, &protocol.BossChangedInfo{TxHash: txHash})

	s.connMutex.RLock()
	conns := make([]*ArenaConnection, 0, len(s.connections))
	for _, c := range s.connections {
		conns = append(conns, c)
	}
	s.connMutex.RUnlock()

	for _, c := range conns {
		if c == origin {
			s.sendBoss(c)
			continue
		}
		go func(c *ArenaConnection) {
			ctx, cancel := s.confirmContext()
			defer cancel()

			if err := c.Arena.Refresh(ctx); err != nil && !errors.Is(err, view.ErrUnavailable) {
				log.Printf("连接 %s 刷新Boss失败: %v", c.ID, err)
			}
			s.sendBoss(c)
		}(c)
	}
}

func (s *ArenaServer) confirmContext() (context.Context, context.CancelFunc) {
	timeout := s.config.Chain.ConfirmTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(s.ctx, timeout)
}

// sendBoss 推送当前视图中的 Boss
func (s *ArenaServer) sendBoss(c *ArenaConnection) {
	boss, ok := c.Arena.Boss()
	if !ok {
		s.sendError(c, errBossUnavailable)
		return
	}
	s.sendMessage(c, protocol.TypeBoss, protocol.ConvertBoss(boss))
}

func (s *ArenaServer) sendError(c *ArenaConnection, err error) {
	s.sendMessage(c, protocol.TypeError, protocol.ConvertError(err))
}

// sendMessage 向连接发送消息
func (s *ArenaServer) sendMessage(c *ArenaConnection, msgType string, payload interface{}) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Printf("序列化消息失败: %v", err)
		return
	}

	s.connMutex.RLock()
	defer s.connMutex.RUnlock()

	if _, ok := s.connections[c.ID]; !ok {
		return
	}
	select {
	case c.Send <- data:
		// 消息已发送到通道
	default:
		// 通道已满，关闭连接
		go s.closeConnection(c)
	}
}

// broadcastMessage 向所有连接广播消息
func (s *ArenaServer) broadcastMessage(msgType string, payload interface{}) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Printf("序列化消息失败: %v", err)
		return
	}

	s.connMutex.RLock()
	defer s.connMutex.RUnlock()

	for _, c := range s.connections {
		select {
		case c.Send <- data:
			// 消息已发送到通道
		default:
			// 通道已满，关闭连接
			go s.closeConnection(c)
		}
	}
}
