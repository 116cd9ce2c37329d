package cart

import "sync"

// SessionStoreはユーザーごとの作成中カートを持つ。
// カートは1セッション専有で、セッションを跨いで共有しない
type SessionStore struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewSessionStore() *SessionStore {
	return &SessionStore{carts: make(map[int64]*Cart)}
}

// ユーザーのカートを取得。無ければ空で作る
func (s *SessionStore) Get(userID int64) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

// 確定成功後やリセット時に破棄する
func (s *SessionStore) Drop(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
