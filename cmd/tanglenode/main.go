// tanglenode runs one node of the network: it loads or creates an
// identity key, establishes or joins a tangle, and drives an interactive
// single-character command loop over it, following
// original_source/src/main.cpp's command switch.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/duskcoin/tangled/internal/config"
	"github.com/duskcoin/tangled/internal/consensus"
	"github.com/duskcoin/tangled/internal/discovery"
	"github.com/duskcoin/tangled/internal/gossip"
	"github.com/duskcoin/tangled/internal/httpapi"
	"github.com/duskcoin/tangled/internal/keystore"
	"github.com/duskcoin/tangled/internal/logging"
	"github.com/duskcoin/tangled/internal/metrics"
	"github.com/duskcoin/tangled/internal/peerfactory"
	"github.com/duskcoin/tangled/internal/pubsub"
	"github.com/duskcoin/tangled/internal/tangle"
	"github.com/duskcoin/tangled/pkg/kern"
	"github.com/duskcoin/tangled/pkg/prot"

	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML config file")
	listenAddr := flag.String("listen-addr", "", "local address to accept peer connections on")
	seedAddr := flag.String("seed", "", "address of a peer to join the network through")
	dataDir := flag.String("data-dir", "", "directory for the key file and saved tangle")
	keyFile := flag.String("key-file", "", "path to this node's key file")
	httpAddr := flag.String("http-addr", "", "address for the debug/metrics HTTP surface")
	genesis := flag.Bool("genesis", false, "establish a new network instead of joining one")
	dev := flag.Bool("dev", false, "use lighter peer-count defaults for local testing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %s\n", err)
		return 1
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen-addr":
			cfg.ListenAddr = *listenAddr
		case "seed":
			cfg.SeedAddrs = []string{*seedAddr}
		case "data-dir":
			cfg.DataDir = *dataDir
		case "key-file":
			cfg.KeyFile = *keyFile
		case "http-addr":
			cfg.HTTPAddr = *httpAddr
		}
	})

	log := logging.New("tanglenode", cfg.LogPath)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Errorf("creating data dir: %s", err)
		return 1
	}

	self, err := keystore.Load(cfg.KeyFile)
	if err != nil {
		log.Errorf("loading key: %s", err)
		return 1
	}
	log.Infof("identity: %s", self.Public.String())

	engine, err := bootstrapEngine(*genesis, self, cfg)
	if err != nil {
		log.Errorf("bootstrapping tangle: %s", err)
		return 1
	}

	var broadcastFn func(prot.MessageType, []byte)
	pubSub := pubsub.New()

	gsp := gossip.New(engine, self, func(t prot.MessageType, payload []byte) {
		if broadcastFn != nil {
			broadcastFn(t, payload)
		}
	})
	gsp.SetAutoFund(cfg.AutoFund && *genesis, cfg.AutoFundAmount)

	pfParams := peerfactory.ProdParams(*listenAddr != "", cfg.ListenAddr, prot.NewParams(cfg.ListenAddr).RuntimeID)
	if *dev {
		pfParams = peerfactory.DevParams(*listenAddr != "", cfg.ListenAddr, pfParams.RuntimeID)
	}
	pf := peerfactory.New(pfParams, pubSub, gsp, log.WithField("subcomponent", "peerfactory"))
	pf.SetSeeds(cfg.SeedAddrs)
	broadcastFn = pf.Broadcast
	go pf.Loop()

	if cfg.DiscoveryEnabled && cfg.ListenAddr != "" {
		if adv, err := discovery.Advertise(pfParams.RuntimeID, portOf(cfg.ListenAddr), nil); err != nil {
			log.Warnf("mDNS advertise failed: %s", err)
		} else {
			defer adv.Close()
		}
	}

	httpSrv := httpapi.New(cfg.HTTPAddr, engine, log.WithField("subcomponent", "httpapi"))
	httpSrv.Start()
	defer httpSrv.Close()

	runCommandLoop(engine, gsp, self, cfg, log)
	return 0
}

// bootstrapEngine either mines a fresh genesis (network founder) or
// installs a throwaway placeholder genesis that gossip.RequestSync will
// immediately replace via SetGenesis once a seed peer answers.
func bootstrapEngine(isGenesis bool, self kern.KeyPair, cfg config.Config) (*tangle.Engine, error) {
	if isGenesis {
		skel := kern.Skeleton{
			Outputs:          []kern.Output{{Account: self.Public, Amount: math.MaxFloat64}},
			MiningDifficulty: 0,
			Timestamp:        time.Now(),
		}
		tx, err := kern.Mine(skel, nil)
		if err != nil {
			return nil, err
		}
		return tangle.New(tx)
	}
	placeholder, err := kern.Mine(kern.Skeleton{MiningDifficulty: 0, Timestamp: time.Now()}, nil)
	if err != nil {
		return nil, err
	}
	return tangle.New(placeholder)
}

func portOf(addr string) int {
	parts := strings.Split(addr, ":")
	port, _ := strconv.Atoi(parts[len(parts)-1])
	return port
}

func runCommandLoop(engine *tangle.Engine, gsp *gossip.Gossip, self kern.KeyPair, cfg config.Config, log *logrus.Entry) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("tanglenode ready. commands: t b d r s l k p w c q")
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		switch strings.ToLower(cmd)[0] {
		case 't':
			cmdTransact(engine, gsp, self, reader)
		case 'b':
			cmdBalance(engine, self, reader)
		case 'd':
			engine.DebugDump(os.Stdout)
		case 'r':
			cmdRandomWalk(engine)
		case 's':
			cmdSave(engine, cfg)
		case 'l':
			cmdLoad(engine, cfg)
		case 'k':
			fmt.Printf("public key: %s\n", self.Public.String())
		case 'p':
			if gsp.AutoPingerEnabled() {
				gsp.DisableAutoPinger()
				fmt.Println("stopped pinging transactions")
			} else {
				gsp.EnableAutoPinger()
				fmt.Println("started pinging transactions")
			}
		case 'w':
			engine.UpdateWeights()
			fmt.Println("weights updated")
		case 'c':
			fmt.Print("\033[H\033[2J")
		case 'q':
			return
		default:
			fmt.Println("unrecognized command")
		}
	}
}

func cmdTransact(engine *tangle.Engine, gsp *gossip.Gossip, self kern.KeyPair, reader *bufio.Reader) {
	fmt.Print("account hash to pay ('r' for random known key): ")
	accountLine, _ := reader.ReadString('\n')
	accountLine = strings.TrimSpace(accountLine)

	known := gsp.KnownKeys()
	target, found := lookupByHash(known, accountLine)
	if !found {
		fmt.Println("unrecognized account hash")
		return
	}
	fmt.Print("amount: ")
	amountLine, _ := reader.ReadString('\n')
	amount, err := strconv.ParseFloat(strings.TrimSpace(amountLine), 64)
	if err != nil {
		fmt.Printf("bad amount: %s\n", err)
		return
	}
	fmt.Print("difficulty: ")
	diffLine, _ := reader.ReadString('\n')
	difficulty, err := strconv.Atoi(strings.TrimSpace(diffLine))
	if err != nil {
		fmt.Printf("bad difficulty: %s\n", err)
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	parents := engine.SelectParents(rng)
	parentHashes := make([]kern.Hash, len(parents))
	for i, p := range parents {
		parentHashes[i] = p.Hash()
	}
	skel := kern.Skeleton{
		ParentHashes:     parentHashes,
		Inputs:           []kern.Input{{Account: self.Public, Amount: amount}},
		Outputs:          []kern.Output{{Account: target, Amount: amount}},
		MiningDifficulty: uint8(difficulty),
		Timestamp:        time.Now(),
	}
	if err := skel.SignInput(0, self.Private); err != nil {
		fmt.Printf("signing: %s\n", err)
		return
	}
	start := time.Now()
	tx, err := kern.Mine(skel, nil)
	if err != nil {
		fmt.Printf("mining: %s\n", err)
		return
	}
	metrics.RecordMined(time.Since(start))
	if err := gsp.Originate(tx); err != nil {
		fmt.Printf("adding: %s\n", err)
		return
	}
	fmt.Printf("sent %.2f, hash %s\n", amount, tx.Hash().String())
}

// lookupByHash resolves an account hex hash (as printed by Hash.String)
// against the known peer key directory, or picks a random entry for "r".
func lookupByHash(known map[string]kern.PublicKey, accountLine string) (kern.PublicKey, bool) {
	if len(known) == 0 {
		return kern.PublicKey{}, false
	}
	if accountLine == "r" {
		choices := make([]kern.PublicKey, 0, len(known))
		for _, pk := range known {
			choices = append(choices, pk)
		}
		return choices[rand.Intn(len(choices))], true
	}
	for _, pk := range known {
		if pk.Hash().String() == accountLine {
			return pk, true
		}
	}
	return kern.PublicKey{}, false
}

func cmdBalance(engine *tangle.Engine, self kern.KeyPair, reader *bufio.Reader) {
	for _, theta := range []float64{0, 0.5, consensus.DefaultConfirmationThreshold} {
		balance, err := engine.QueryBalance(self.Public, theta)
		if err != nil {
			fmt.Printf("theta=%.2f: %s\n", theta, err)
			continue
		}
		fmt.Printf("theta=%.2f balance=%.2f\n", theta, balance)
	}
}

func cmdRandomWalk(engine *tangle.Engine) {
	genesis := engine.Genesis()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	result := consensus.BiasedRandomWalk(genesis, consensus.DefaultAlpha, 0, rng)
	fmt.Printf("walked to %s\n", result.Hash().String())
}

func cmdSave(engine *tangle.Engine, cfg config.Config) {
	path := cfg.DataDir + "/tangle.dat"
	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("save: %s\n", err)
		return
	}
	defer f.Close()
	if err := engine.SaveTangle(f); err != nil {
		fmt.Printf("save: %s\n", err)
		return
	}
	fmt.Printf("saved to %s\n", path)
}

func cmdLoad(engine *tangle.Engine, cfg config.Config) {
	path := cfg.DataDir + "/tangle.dat"
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("load: %s\n", err)
		return
	}
	defer f.Close()
	loaded, err := tangle.LoadTangle(f)
	if err != nil {
		fmt.Printf("load: %s\n", err)
		return
	}
	_ = loaded
	fmt.Println("loaded tangle (note: does not replace the running engine in this CLI build)")
}
