/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  progress.go - Progrés de les extraccions. Cada subtasca publica un
 *                token amb comptadors i l'agregador els resumeix en
 *                una única fracció.
 */

package vfs

import (
  "sync"
)


/******************/
/* PROGRESS TOKEN */
/******************/

type ProgressToken struct {

  mu        sync.Mutex
  processed int64
  total     int64
  has_total bool
  completed bool

  agg *Aggregator

}


// Fixa el total d'unitats de treball de la subtasca.
func (self *ProgressToken) SetTotal( total int64 ) {

  self.mu.Lock ()
  self.total= total
  self.has_total= true
  self.mu.Unlock ()
  if self.agg != nil { self.agg.changed () }

} // end SetTotal


// Incrementa el comptador d'unitats processades.
func (self *ProgressToken) Increment() {

  self.mu.Lock ()
  self.processed++
  self.mu.Unlock ()
  if self.agg != nil { self.agg.changed () }

} // end Increment


// Marca la subtasca com a acabada. És idempotent.
func (self *ProgressToken) Complete() {

  self.mu.Lock ()
  self.completed= true
  self.mu.Unlock ()
  if self.agg != nil { self.agg.changed () }

} // end Complete


func (self *ProgressToken) snapshot() (int64,int64,bool,bool) {

  self.mu.Lock ()
  defer self.mu.Unlock ()

  return self.processed,self.total,self.has_total,self.completed

} // end snapshot


/**************/
/* AGGREGATOR */
/**************/

type Aggregator struct {

  mu           sync.Mutex
  tokens       []*ProgressToken
  on_completed func()
  fired        bool

}


func NewAggregator() *Aggregator {
  return &Aggregator{}
} // end NewAggregator


// Crea un token nou subscrit a l'agregador.
func (self *Aggregator) NewToken() *ProgressToken {

  ret:= &ProgressToken{
    agg: self,
  }
  self.mu.Lock ()
  self.tokens= append(self.tokens,ret)
  self.mu.Unlock ()

  return ret

} // end Aggregator.NewToken


// Registra el callback que es crida una única vegada quan tots els
// tokens han acabat.
func (self *Aggregator) OnCompleted( f func() ) {

  self.mu.Lock ()
  self.on_completed= f
  self.mu.Unlock ()

} // end OnCompleted


// Fracció de treball feta, en [0,1].
func (self *Aggregator) Progress() float64 {

  self.mu.Lock ()
  tokens:= self.tokens
  self.mu.Unlock ()

  var processed,total int64= 0,0
  for _,t:= range tokens {
    p,tot,has,_:= t.snapshot ()
    if has {
      processed+= p
      total+= tot
    }
  }
  if total == 0 { return 0 }
  ret:= float64(processed)/float64(total)
  if ret > 1 { ret= 1 }

  return ret

} // end Progress


// Cert mentre cap token no ha publicat el seu total.
func (self *Aggregator) IsIndeterminate() bool {

  self.mu.Lock ()
  tokens:= self.tokens
  self.mu.Unlock ()

  for _,t:= range tokens {
    _,_,has,_:= t.snapshot ()
    if has { return false }
  }

  return true

} // end IsIndeterminate


// Notificació de canvi d'un token.
func (self *Aggregator) changed() {

  self.mu.Lock ()
  if self.fired || self.on_completed == nil || len(self.tokens) == 0 {
    self.mu.Unlock ()
    return
  }
  tokens:= self.tokens
  f:= self.on_completed
  self.mu.Unlock ()

  for _,t:= range tokens {
    _,_,_,completed:= t.snapshot ()
    if !completed { return }
  }

  self.mu.Lock ()
  fire:= !self.fired
  self.fired= true
  self.mu.Unlock ()
  if fire { f () }

} // end Aggregator.changed
