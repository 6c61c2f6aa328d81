package fixgateway

import (
	"github.com/quickfixgo/quickfix"

	"lob/pkg/broadcast"
	"lob/pkg/logging"
	"lob/pkg/multisymbol"
)

// Server is the lifecycle wrapper around an Application: construct with
// NewServer, Init with a quickfix settings file, then Start/Stop around
// the gateway's running time.
type Server struct {
	configFilepath string
	registry       *multisymbol.Registry
	logger         *logging.Logger
	publisher      *broadcast.Publisher

	app      *Application
	acceptor *quickfix.Acceptor
}

// NewServer constructs a gateway bound to registry. logger and publisher
// may both be nil.
func NewServer(registry *multisymbol.Registry, logger *logging.Logger, publisher *broadcast.Publisher) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.INFO)
	}
	return &Server{registry: registry, logger: logger, publisher: publisher}
}

// Init records the quickfix settings file path used by Start.
func (s *Server) Init(configFilepath string) error {
	s.configFilepath = configFilepath
	return nil
}

// Start builds the Application and starts its acceptor.
func (s *Server) Start() error {
	app := NewApplication(s.registry, s.logger, s.publisher)
	acceptor, err := StartAcceptor(s.configFilepath, app)
	if err != nil {
		return err
	}
	s.app = app
	s.acceptor = acceptor
	return nil
}

// Stop stops the acceptor. Safe to call on a Server that never started.
func (s *Server) Stop() error {
	if s.acceptor != nil {
		s.acceptor.Stop()
	}
	return nil
}
