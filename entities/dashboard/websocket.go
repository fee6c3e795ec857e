package dashboard

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"api/middlewares"
	"api/utils"
)

type SyncWSMessage struct {
	Event            string `json:"event"`
	Source           string `json:"source"`
	RecordsProcessed int    `json:"recordsProcessed"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Conexões agrupadas por organização; o broadcast de fim de sincronização só
// vai para o tenant dono da passada.
var wsClients = make(map[*websocket.Conn]string)
var wsMutex sync.Mutex

// BroadcastSyncCompleted avisa os dashboards abertos da organização que uma
// passada terminou.
func BroadcastSyncCompleted(orgID string, source string, recordsProcessed int) {
	msg := SyncWSMessage{
		Event:            "sync_completed",
		Source:           source,
		RecordsProcessed: recordsProcessed,
	}

	wsMutex.Lock()
	defer wsMutex.Unlock()
	for client, clientOrg := range wsClients {
		if clientOrg != orgID {
			continue
		}
		err := client.WriteJSON(msg)
		if err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}

// DashboardWebSocketHandler registra a conexão no grupo da organização do
// usuário autenticado e segura até o cliente desconectar. A organização vem
// do token, nunca do chamador.
func DashboardWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.GetAuthUser(r)
	if !ok {
		utils.SendResponse(w, http.StatusUnauthorized, "Usuário não autenticado", nil, 0)
		return
	}
	orgID := user.OrganizationID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Não foi possível fazer upgrade para websocket", http.StatusInternalServerError)
		return
	}
	defer conn.Close()

	wsMutex.Lock()
	wsClients[conn] = orgID
	wsMutex.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	wsMutex.Lock()
	delete(wsClients, conn)
	wsMutex.Unlock()
}
